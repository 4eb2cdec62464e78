package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	config        string
	to            string
	outputDir     string
	workers       int
	timeout       time.Duration
	engineModule  string
	engineCommand string
	verbose       bool
	version       bool
}

// parseFlags parses command-line arguments into flags and positional inputs.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("anydoc", flag.ContinueOnError)
	fs.SortFlags = false

	f := &cliFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config name or path (YAML)")
	fs.StringVarP(&f.to, "to", "t", "", "target format, e.g. .pdf or .rst (required)")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "output directory (default: alongside input)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-conversion timeout (0 = library default)")
	fs.StringVar(&f.engineModule, "engine-module", "", "engine module URL or local path")
	fs.StringVar(&f.engineCommand, "engine-command", "", "use a local pandoc-compatible binary instead of the wasm engine")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: anydoc --to <format> [flags] <input>...\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
