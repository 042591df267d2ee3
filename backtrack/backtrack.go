// Package backtrack implements the full backtracking matcher (spec.md
// §4.C5): the only matcher capable of honoring temporal assertions. It
// also records the longest prefix witnessed (for the "matched events"
// surface operation) and drives non-overlapping counting.
//
// This is a direct port of the teacher module's nfa/backtrack.go idiom —
// an explicit LIFO of (action, event, anchor) choice points walked over a
// linear program — specialized to this grammar's eight action kinds
// instead of byte/rune instruction opcodes.
package backtrack

import (
	"github.com/coregx/seqmatch/events"
	"github.com/coregx/seqmatch/pattern"
	"github.com/coregx/seqmatch/seqerr"
)

// frame is one saved choice point: the action and event cursor to resume
// at (one event later), plus the anchor timestamp in effect at the time.
type frame struct {
	actionIdx int
	eventsIdx int
	baseIdx   int
}

// Match runs one backtracking match starting at the beginning of rows and
// reports whether the whole pattern accepts.
func Match[T events.Unsigned](actions []pattern.Action, rows []events.Row[T]) (bool, error) {
	ei := 0
	matched, _, err := matchOnce(actions, rows, &ei, false)
	return matched, err
}

// Count runs greedy-left non-overlapping matches, driving the matcher
// forward from wherever the previous match left off, until it fails or
// the buffer is exhausted.
func Count[T events.Unsigned](actions []pattern.Action, rows []events.Row[T]) (uint64, error) {
	var count uint64
	ei := 0
	for ei != len(rows) {
		matched, _, err := matchOnce(actions, rows, &ei, false)
		if err != nil {
			return count, err
		}
		if !matched {
			break
		}
		count++
	}
	return count, nil
}

// MatchedEvents runs one backtracking match in longest-prefix-recording
// mode and returns the longest sequence of Specific-matched timestamps
// witnessed anywhere during the search, regardless of whether the pattern
// as a whole ultimately matched.
func MatchedEvents[T events.Unsigned](actions []pattern.Action, rows []events.Row[T]) ([]T, error) {
	ei := 0
	_, best, err := matchOnce(actions, rows, &ei, true)
	if best == nil {
		best = []T{}
	}
	return best, err
}

// matchOnce is the shared engine behind Match, Count, and MatchedEvents.
// It starts at *eventsIdx, leaves *eventsIdx at the cursor where the
// search stopped (used by Count to resume non-overlapping), and in
// remember mode additionally returns the longest Specific-timestamp
// prefix seen.
func matchOnce[T events.Unsigned](actions []pattern.Action, rows []events.Row[T], eventsIdx *int, remember bool) (bool, []T, error) {
	n := len(rows)
	eventsBegin := *eventsIdx

	actionIdx := 0
	ei := *eventsIdx
	baseIdx := ei

	var stack []frame
	var matchedTS []T
	var matchedAt []int // action index recorded alongside each matchedTS entry
	var best []T

	push := func() {
		stack = append(stack, frame{actionIdx, ei, baseIdx})
	}

	backtrack := func() bool {
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			actionIdx = top.actionIdx
			ei = top.eventsIdx + 1
			baseIdx = top.baseIdx

			if remember {
				for len(matchedAt) > 0 && matchedAt[len(matchedAt)-1] >= actionIdx {
					matchedAt = matchedAt[:len(matchedAt)-1]
					matchedTS = matchedTS[:len(matchedTS)-1]
				}
			}

			if ei != n {
				return true
			}
		}
		return false
	}

	iterations := 0

matchLoop:
	for actionIdx < len(actions) && ei != n {
		act := actions[actionIdx]
		base := uint64(rows[baseIdx].Timestamp)
		cur := uint64(rows[ei].Timestamp)

		switch act.Type {
		case pattern.Specific:
			if rows[ei].Has(uint32(act.Extra)) {
				if remember {
					push()
					matchedTS = append(matchedTS, rows[ei].Timestamp)
					matchedAt = append(matchedAt, actionIdx)
					if len(matchedTS) > len(best) {
						best = append([]T(nil), matchedTS...)
					}
				}
				baseIdx = ei
				actionIdx++
				ei++
			} else if !backtrack() {
				break matchLoop
			}

		case pattern.Any:
			baseIdx = ei
			actionIdx++
			ei++

		case pattern.KleeneStar:
			push()
			baseIdx = ei
			actionIdx++

		case pattern.TimeLessOrEqual:
			if cur <= base+act.Extra {
				push()
				baseIdx = ei
				actionIdx++
			} else if !backtrack() {
				break matchLoop
			}

		case pattern.TimeLess:
			if cur < base+act.Extra {
				push()
				baseIdx = ei
				actionIdx++
			} else if !backtrack() {
				break matchLoop
			}

		case pattern.TimeGreaterOrEqual:
			if cur >= base+act.Extra {
				push()
				baseIdx = ei
				actionIdx++
			} else {
				ei++
				if ei == n && !backtrack() {
					break matchLoop
				}
			}

		case pattern.TimeGreater:
			if cur > base+act.Extra {
				push()
				baseIdx = ei
				actionIdx++
			} else {
				ei++
				if ei == n && !backtrack() {
					break matchLoop
				}
			}

		case pattern.TimeEqual:
			if cur == base+act.Extra {
				push()
				baseIdx = ei
				actionIdx++
			} else {
				ei++
				if ei == n && !backtrack() {
					break matchLoop
				}
			}

		default:
			panic("seqmatch: unreachable pattern action type in backtracking matcher")
		}

		iterations++
		if iterations > seqerr.MaxIterations {
			return false, nil, seqerr.ErrTooSlow
		}
	}

	// Terminal tail: trailing actions that accept the empty suffix need
	// not consume an event.
	for actionIdx < len(actions) && actions[actionIdx].AcceptsEmptySuffix() {
		actionIdx++
	}

	// Empty-input edge: an empty buffer (or a call that never advanced)
	// must still be able to satisfy an all-accepting-empty pattern.
	if ei == eventsBegin {
		ei++
	}
	*eventsIdx = ei

	matched := actionIdx == len(actions)
	if remember {
		return matched, best, nil
	}
	return matched, nil, nil
}
