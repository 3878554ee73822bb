package main

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], DefaultEnv()))
}

// runMain parses arguments, runs the conversion, and maps the outcome to an
// exit code.
func runMain(args []string, env *Environment) int {
	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		if isHelp(err) {
			return ExitSuccess
		}
		printError(env, err)
		return ExitUsage
	}

	if flags.version {
		printVersion(env)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug().Msgf(format, args...)
	}))

	ctx, stop := notifyContext(env.Context)
	defer stop()

	if err := runConvert(ctx, positional, flags, env, logger); err != nil {
		logger.WithLevel(zerolog.ErrorLevel).Err(err).Msg("coursemark failed")
		return exitCodeFor(err)
	}
	return ExitSuccess
}
