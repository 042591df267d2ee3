package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/coregx/seqmatch"
	"github.com/coregx/seqmatch/seqerr"
)

// REPL is an interactive shell over a single compiled Matcher and a
// single mutable State: feed it rows, then ask for match/count/events on
// demand. Grounded on client9-cardinal's cmd/repl (bufio.Scanner read
// loop, golang.org/x/term TTY detection gating prompt/banner output).
type REPL struct {
	matcher *seqmatch.Matcher[uint64]
	state   *seqmatch.State[uint64]
	input   io.Reader
	output  io.Writer
	prompt  string
}

// NewREPL creates a shell wired to stdin/stdout for the given matcher.
func NewREPL(matcher *seqmatch.Matcher[uint64]) *REPL {
	return &REPL{
		matcher: matcher,
		state:   matcher.NewState(),
		input:   os.Stdin,
		output:  os.Stdout,
		prompt:  "seqmatch> ",
	}
}

// SetPrompt overrides the default prompt string.
func (r *REPL) SetPrompt(prompt string) {
	r.prompt = prompt
}

// isInteractive reports whether the shell should print prompts and
// banners: only when reading from a real terminal on stdin.
func (r *REPL) isInteractive() bool {
	if r.input == os.Stdin {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	return false
}

// Run starts the read loop. Each line is either a command (match, count,
// events, reset, help, quit/exit) or a row of the form
// "<timestamp> <event> <event> ...", where each trailing field is a
// 1-based event index set true on that row.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.input)

	if r.isInteractive() {
		fmt.Fprintln(r.output, "seqmatch shell — feed rows, then ask match/count/events")
		fmt.Fprintln(r.output, "row syntax: <timestamp> <event> <event> ...   (e.g. \"1000 1 3\")")
		fmt.Fprintln(r.output, "commands: match | count | events | reset | help | quit")
	}

	for {
		if r.isInteractive() {
			fmt.Fprint(r.output, r.prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "quit", "exit":
			return nil
		case "help":
			r.printHelp()
			continue
		case "reset":
			r.state = r.matcher.NewState()
			continue
		case "match":
			matched, err := r.matcher.Match(r.state)
			r.report(matched, err)
			continue
		case "count":
			count, err := r.matcher.Count(r.state)
			r.report(count, err)
			continue
		case "events":
			evs, err := r.matcher.MatchedEvents(r.state)
			r.report(evs, err)
			continue
		}

		if err := r.addRow(strings.Fields(line)); err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}

	return scanner.Err()
}

func (r *REPL) addRow(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("empty row")
	}

	ts, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp %q: %w", fields[0], err)
	}

	var mask uint32
	for _, f := range fields[1:] {
		idx, err := strconv.Atoi(f)
		if err != nil || idx < 1 || idx > seqerr.MaxEvents {
			return fmt.Errorf("bad event index %q", f)
		}
		mask |= 1 << uint(idx-1)
	}

	r.state.Add32(ts, mask)
	return nil
}

func (r *REPL) report(v any, err error) {
	if err != nil {
		fmt.Fprintf(r.output, "error: %v\n", err)
		return
	}
	fmt.Fprintf(r.output, "%v\n", v)
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `
Commands:
  <timestamp> <event> <event> ...   add a row; each trailing field is a
                                     1-based event index set true on it
  match                             print whether the pattern matches
  count                             print the non-overlapping match count
  events                            print the longest matched prefix
  reset                             discard all rows accumulated so far
  help                              show this message
  quit, exit                        leave the shell
`)
}
