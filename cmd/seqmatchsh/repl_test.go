package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/coregx/seqmatch"
)

func newTestREPL(t *testing.T) *REPL {
	t.Helper()
	m, err := seqmatch.NewMatcher[uint64](2, "(?1)(?2)")
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}
	return &REPL{
		matcher: m,
		state:   m.NewState(),
		input:   strings.NewReader(""),
		output:  &bytes.Buffer{},
		prompt:  "seqmatch> ",
	}
}

func TestAddRowParsesTimestampAndEvents(t *testing.T) {
	r := newTestREPL(t)
	if err := r.addRow([]string{"1000", "1"}); err != nil {
		t.Fatalf("addRow() error = %v", err)
	}
	// Black-box check: the longest matched prefix of (?1)(?2) is the single
	// row just added, carrying timestamp 1000 and event 1.
	got, err := r.matcher.MatchedEvents(r.state)
	if err != nil || len(got) != 1 || got[0] != 1000 {
		t.Fatalf("MatchedEvents() = (%v, %v), want ([1000], nil)", got, err)
	}
}

func TestAddRowRejectsEmptyLine(t *testing.T) {
	r := newTestREPL(t)
	if err := r.addRow(nil); err == nil {
		t.Error("addRow(nil) should error on an empty row")
	}
}

func TestAddRowRejectsBadTimestamp(t *testing.T) {
	r := newTestREPL(t)
	if err := r.addRow([]string{"notanumber", "1"}); err == nil {
		t.Error("addRow() with a non-numeric timestamp should error")
	}
}

func TestAddRowRejectsOutOfRangeEventIndex(t *testing.T) {
	r := newTestREPL(t)
	if err := r.addRow([]string{"1", "0"}); err == nil {
		t.Error("addRow() with event index 0 should error (1-based)")
	}
	if err := r.addRow([]string{"1", "33"}); err == nil {
		t.Error("addRow() with event index 33 should error (max 32)")
	}
}

func TestAddRowThenMatchReflectsFields(t *testing.T) {
	r := newTestREPL(t)
	if err := r.addRow([]string{"1", "1"}); err != nil {
		t.Fatalf("addRow() error = %v", err)
	}
	if err := r.addRow([]string{"2", "2"}); err != nil {
		t.Fatalf("addRow() error = %v", err)
	}
	matched, err := r.matcher.Match(r.state)
	if err != nil || !matched {
		t.Fatalf("Match() = (%v, %v), want (true, nil) after feeding matching rows via addRow", matched, err)
	}
}

func TestRunQuitExitsCleanly(t *testing.T) {
	r := newTestREPL(t)
	r.input = strings.NewReader("quit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunResetClearsState(t *testing.T) {
	r := newTestREPL(t)
	r.input = strings.NewReader("1 1\nreset\nmatch\nquit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := r.output.(*bytes.Buffer).String()
	if !strings.Contains(out, "false") {
		t.Errorf("output = %q, want a \"false\" match report after reset", out)
	}
}
