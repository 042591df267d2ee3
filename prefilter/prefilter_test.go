package prefilter

import (
	"errors"
	"testing"

	"github.com/coregx/seqmatch/events"
	"github.com/coregx/seqmatch/pattern"
	"github.com/coregx/seqmatch/seqerr"
)

func compileOrFatal(t *testing.T, src string, eventCount int) *pattern.Compiled {
	t.Helper()
	c, err := pattern.Compile(src, eventCount)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", src, err)
	}
	return c
}

func TestCouldMatchDeterministicRunFound(t *testing.T) {
	c := compileOrFatal(t, "(?1)(?2)", 2)
	rows := []events.Row[uint32]{
		{Timestamp: 1, Mask: 0b01},
		{Timestamp: 2, Mask: 0b10},
	}
	ok, err := CouldMatch(c.Actions, rows, seqerr.MaxIterations)
	if err != nil {
		t.Fatalf("CouldMatch() error = %v", err)
	}
	if !ok {
		t.Error("CouldMatch() = false, want true")
	}
}

func TestCouldMatchRejectsMissingAtom(t *testing.T) {
	c := compileOrFatal(t, "(?1)(?2)", 2)
	rows := []events.Row[uint32]{
		{Timestamp: 1, Mask: 0b01},
		{Timestamp: 2, Mask: 0b01},
	}
	ok, err := CouldMatch(c.Actions, rows, seqerr.MaxIterations)
	if err != nil {
		t.Fatalf("CouldMatch() error = %v", err)
	}
	if ok {
		t.Error("CouldMatch() = true, want false: second event never appears")
	}
}

func TestCouldMatchWithTimeGapStillChecksOrder(t *testing.T) {
	// Time assertions are non-deterministic breaks between runs; the
	// prefilter only verifies the Specific/Any atoms occur in order.
	c := compileOrFatal(t, "(?1)(?t<=5)(?2)", 2)
	rows := []events.Row[uint32]{
		{Timestamp: 1, Mask: 0b01},
		{Timestamp: 100, Mask: 0b10}, // out of time budget, but prefilter doesn't check time
	}
	ok, err := CouldMatch(c.Actions, rows, seqerr.MaxIterations)
	if err != nil {
		t.Fatalf("CouldMatch() error = %v", err)
	}
	if !ok {
		t.Error("CouldMatch() = false, want true: prefilter ignores time, only checks ordering")
	}
}

func TestCouldMatchTooSlow(t *testing.T) {
	c := compileOrFatal(t, "(?1)(?2)", 2)
	rows := make([]events.Row[uint32], 10)
	for i := range rows {
		rows[i] = events.Row[uint32]{Timestamp: uint32(i), Mask: 0b01}
	}
	_, err := CouldMatch(c.Actions, rows, 3)
	if !errors.Is(err, seqerr.ErrTooSlow) {
		t.Fatalf("CouldMatch() error = %v, want seqerr.ErrTooSlow", err)
	}
}

func TestCouldMatchEmptyRunsAreTrivial(t *testing.T) {
	c := compileOrFatal(t, ".*", 1)
	ok, err := CouldMatch[uint32](c.Actions, nil, seqerr.MaxIterations)
	if err != nil {
		t.Fatalf("CouldMatch() error = %v", err)
	}
	if !ok {
		t.Error("CouldMatch() on an all-Kleene pattern with no rows should be true")
	}
}
