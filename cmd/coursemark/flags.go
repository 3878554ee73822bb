package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags that control diagnostics and configuration.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// assetFlags holds stylesheet flags for standalone documents.
type assetFlags struct {
	style     string // name, path, or CSS content
	assetPath string // override asset directory
}

// cliFlags holds all command-line flags.
type cliFlags struct {
	common     commonFlags
	assets     assetFlags
	mode       string
	output     string
	workers    int
	timeout    string
	title      string
	standalone bool
	version    bool
	listStyles bool
	set        map[string]bool // flags given explicitly
}

// parseFlags parses args (without the program name) and returns positional args.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("coursemark", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.mode, "mode", "m", "", "conversion mode: article, course, preparse, postserialize, editor")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file timeout (e.g., 10s, 1m)")
	fs.StringVar(&f.title, "title", "", "document title for --standalone (default: file name)")
	fs.BoolVar(&f.standalone, "standalone", false, "wrap HTML output in a full document with stylesheet")
	fs.StringVar(&f.assets.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assets.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "show debug output and timing")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.listStyles, "list-styles", false, "print available style names and exit")

	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

func isHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: coursemark [flags] <file|dir|->...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render course and article markup to HTML, quiz JSON, or editor markup.")
	fmt.Fprintln(w, "Use - to read from stdin and write to stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	for _, name := range envVarNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
