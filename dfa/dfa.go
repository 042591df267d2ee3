// Package dfa implements the time-free fast path (spec.md §4.C3): a
// linear-time existence test used whenever the compiled pattern has no
// temporal assertions.
//
// It is the direct structural analogue of the teacher module's
// dfa/onepass package — a single-transition-per-state automaton walked
// event by event — specialized to mask transitions instead of byte-range
// transitions, and without capture-group bookkeeping (this grammar has
// none).
package dfa

import (
	"github.com/coregx/seqmatch/events"
	"github.com/coregx/seqmatch/internal/conv"
	"github.com/coregx/seqmatch/internal/sparse"
	"github.com/coregx/seqmatch/pattern"
)

// Match runs the DFA states over rows in order and reports whether the
// final state is ever reached. states must come from a Compiled pattern
// with HasTime == false; behavior is undefined otherwise.
func Match[T events.Unsigned](states []pattern.DFAState, rows []events.Row[T]) bool {
	if len(states) == 0 {
		return true
	}
	last := conv.IntToUint32(len(states) - 1)

	active := sparse.New(len(states))
	next := sparse.New(len(states))
	active.Insert(0)

	for i := 0; i < len(rows) && active.Len() > 0 && !active.Contains(last); i++ {
		row := rows[i]
		next.Clear()

		for _, s := range active.Values() {
			st := states[s]
			switch st.Transition {
			case pattern.TransAny:
				next.Insert(s + 1)
			case pattern.TransSpecific:
				if row.Has(st.Event) {
					next.Insert(s + 1)
				}
			}
			if st.HasKleene {
				next.Insert(s)
			}
		}

		active, next = next, active
	}

	return active.Contains(last)
}
