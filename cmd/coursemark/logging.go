package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// newLogger builds the console logger for CLI diagnostics on stderr.
// Default level is info; verbose enables debug, quiet keeps errors only.
func newLogger(w io.Writer, quiet, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// printError reports an error that occurs before the logger exists.
func printError(env *Environment, err error) {
	fmt.Fprintln(env.Stderr, "error:", err)
}

func printVersion(env *Environment) {
	fmt.Fprintf(env.Stdout, "coursemark %s\n", Version)
}
