// Command seqmatchsh is an interactive shell for experimenting with
// sequence patterns: load a pattern (numeric, or named via a config
// file), feed rows, and ask for match/count/events.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coregx/seqmatch"
	"github.com/coregx/seqmatch/config"
)

func main() {
	var (
		prompt     = flag.String("prompt", "seqmatch> ", "shell prompt string")
		help       = flag.Bool("help", false, "show help message")
		eventCount = flag.Int("events", 0, "number of numeric event flags (required unless -config is given)")
		patternStr = flag.String("pattern", "", "pattern string (numeric event indices, unless -config is given)")
		configPath = flag.String("config", "", "path to a named-pattern config file (see package config)")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if *patternStr == "" {
		fmt.Fprintln(os.Stderr, "error: -pattern is required")
		os.Exit(1)
	}

	var (
		matcher *seqmatch.Matcher[uint64]
		err     error
	)

	if *configPath != "" {
		cfg, loadErr := config.Load(*configPath)
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", loadErr)
			os.Exit(1)
		}
		resolved, resolveErr := cfg.Resolve(*patternStr)
		if resolveErr != nil {
			fmt.Fprintf(os.Stderr, "error resolving pattern: %v\n", resolveErr)
			os.Exit(1)
		}
		matcher, err = seqmatch.NewMatcher[uint64](cfg.EventCount(), resolved)
	} else {
		if *eventCount <= 0 {
			fmt.Fprintln(os.Stderr, "error: -events is required unless -config is given")
			os.Exit(1)
		}
		matcher, err = seqmatch.NewMatcher[uint64](*eventCount, *patternStr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error compiling pattern: %v\n", err)
		os.Exit(1)
	}

	repl := NewREPL(matcher)
	repl.SetPrompt(*prompt)

	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shell error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println(`seqmatchsh — interactive sequence-pattern shell

Usage:
  seqmatchsh -events N -pattern '<pattern>'
  seqmatchsh -config path/to/config.yaml -pattern '<named-pattern-or-inline>'

Flags:
  -events N       number of numeric event flags (2..32)
  -pattern P      pattern string; with -config, may reference named
                  events/patterns (see package config)
  -config PATH    load an event-name table and named patterns from YAML
  -prompt STR     set the shell prompt (default "seqmatch> ")
  -help           show this help message

Examples:
  seqmatchsh -events 2 -pattern '(?1)(?t<=300)(?2)'
  seqmatchsh -config seqmatch.yaml -pattern login-then-purchase`)
}
