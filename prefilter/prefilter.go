// Package prefilter implements the deterministic-prefix pruner (spec.md
// §4.C4): a cheap O(n) pre-check that the ordered deterministic atoms of a
// pattern (its Specific/Any actions) all occur, in order, somewhere in the
// event buffer.
//
// It answers a necessary, not sufficient, condition — a quick rejection
// ahead of the full backtracking matcher, in the same spirit as the
// teacher module's prefilter package, which rejects candidate haystacks by
// literal pre-scan before running a real regex engine.
package prefilter

import (
	"github.com/coregx/seqmatch/events"
	"github.com/coregx/seqmatch/pattern"
	"github.com/coregx/seqmatch/seqerr"
)

// CouldMatch partitions actions into maximal deterministic runs
// (Specific/Any) separated by non-deterministic fragments (KleeneStar and
// any Time* action), and tries to locate each run, in order, in rows.
// Returns false iff some run cannot be found; a true result means only
// that a full match has not been ruled out.
//
// Returns seqerr.ErrTooSlow if the scan exceeds maxIterations events
// processed.
func CouldMatch[T events.Unsigned](actions []pattern.Action, rows []events.Row[T], maxIterations int) (bool, error) {
	eventsProcessed := 0
	rowIdx := 0

	runStart := 0
	for i := 0; i <= len(actions); i++ {
		// End of a deterministic run: either we hit a non-deterministic
		// action, or we reached the end of the action list.
		atEnd := i == len(actions)
		var nonDeterministic bool
		if !atEnd {
			nonDeterministic = actions[i].Type != pattern.Specific && actions[i].Type != pattern.Any
		}

		if atEnd || nonDeterministic {
			ok, newIdx, err := matchRun(actions[runStart:i], rows, rowIdx, maxIterations, &eventsProcessed)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			rowIdx = newIdx
			runStart = i + 1
		}
	}

	return true, nil
}

// matchRun scans forward from rows[from:] trying to match run atom by
// atom; on mismatch it advances the scan start by one row and restarts the
// run from its first atom. Returns whether the run was found and the row
// index just past the end of the match.
func matchRun[T events.Unsigned](run []pattern.Action, rows []events.Row[T], from int, maxIterations int, processed *int) (bool, int, error) {
	if len(run) == 0 {
		return true, from, nil
	}

	start := from
	for start < len(rows) {
		ri := start
		ai := 0
		for ai < len(run) && ri < len(rows) {
			ok := run[ai].Type == pattern.Any || rows[ri].Has(uint32(run[ai].Extra))
			if !ok {
				break
			}
			ai++
			ri++

			*processed++
			if *processed > maxIterations {
				return false, 0, seqerr.ErrTooSlow
			}
		}
		if ai == len(run) {
			return true, ri, nil
		}
		start++

		*processed++
		if *processed > maxIterations {
			return false, 0, seqerr.ErrTooSlow
		}
	}

	return false, 0, nil
}
