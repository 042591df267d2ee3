// Package seqmatch implements a temporal event-sequence pattern matcher:
// an aggregate-style operator that, given a time-ordered stream of rows
// each carrying a timestamp and up to 32 boolean event flags, evaluates a
// compact regex-like pattern over the sequence.
//
// It specializes the teacher module's (coregx/coregex) multi-engine
// architecture — compile once into parallel fast-path and fallback
// representations, dispatch by pattern shape — to a fixed 32-symbol
// alphabet of event flags plus one ordered timestamp, instead of a
// general byte/rune regex over text.
//
// Basic usage:
//
//	m, err := seqmatch.NewMatcher[uint32](2, "(?1)(?t<=300)(?2)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := m.NewState()
//	s.Add(1000, true, false)
//	s.Add(1200, false, true)
//	matched, err := m.Match(s)
package seqmatch

import (
	"github.com/coregx/seqmatch/backtrack"
	"github.com/coregx/seqmatch/dfa"
	"github.com/coregx/seqmatch/events"
	"github.com/coregx/seqmatch/pattern"
	"github.com/coregx/seqmatch/prefilter"
	"github.com/coregx/seqmatch/seqerr"
)

// Matcher is a compiled pattern: immutable once constructed, and safe to
// share across goroutines without synchronization — the same contract
// the teacher gives *coregex.Regex (safe to share, not safe to mutate
// concurrently via e.g. ResetStats). One Matcher serves any number of
// States.
type Matcher[T events.Unsigned] struct {
	compiled   *pattern.Compiled
	eventCount int
}

// NewMatcher compiles pattern against an alphabet of eventCount boolean
// event flags (1-based indices 1..eventCount inside the pattern text).
// eventCount must be in [2, seqerr.MaxEvents]; outside that range it
// returns ErrTooFewArguments or ErrTooManyArguments (the Go realization
// of the original's NUMBER_OF_ARGUMENTS_DOESNT_MATCH family — the
// timestamp argument itself is implicit in T rather than a runtime
// argument, since Go expresses "must be an unsigned integral timestamp"
// as a type constraint).
func NewMatcher[T events.Unsigned](eventCount int, patternSrc string) (*Matcher[T], error) {
	if eventCount < 2 {
		return nil, seqerr.ErrTooFewArguments
	}
	if eventCount > seqerr.MaxEvents {
		return nil, seqerr.ErrTooManyArguments
	}

	compiled, err := pattern.Compile(patternSrc, eventCount)
	if err != nil {
		return nil, err
	}

	return &Matcher[T]{compiled: compiled, eventCount: eventCount}, nil
}

// NewState creates a fresh, empty per-group buffer for this matcher's
// event alphabet.
func (m *Matcher[T]) NewState() *State[T] {
	return &State[T]{}
}

// guardPasses is the cheap pre-check shared by Match and Count: a
// pattern can only possibly match if every event condition it mentions
// has been observed at least once, anywhere in the buffer.
func (m *Matcher[T]) guardPasses(s *State[T]) bool {
	return m.compiled.ConditionsInPattern&s.conditionsMet == m.compiled.ConditionsInPattern
}

// Match reports whether the pattern matches anywhere in s.
func (m *Matcher[T]) Match(s *State[T]) (bool, error) {
	s.sortRows()

	if !m.guardPasses(s) {
		withGroupID(logger.Debug(), s.GroupID).Msg("guard short-circuit: a pattern condition was never observed")
		return false, nil
	}

	if !m.compiled.HasTime {
		return dfa.Match(m.compiled.States, s.rows), nil
	}

	ok, err := prefilter.CouldMatch(m.compiled.Actions, s.rows, seqerr.MaxIterations)
	if err != nil {
		withGroupID(logger.Warn(), s.GroupID).Err(err).Msg("deterministic-prefix pruner aborted")
		return false, err
	}
	if !ok {
		return false, nil
	}

	matched, err := backtrack.Match(m.compiled.Actions, s.rows)
	if err != nil {
		withGroupID(logger.Warn(), s.GroupID).Err(err).Msg("backtracking matcher aborted")
		return false, err
	}
	return matched, nil
}

// Count returns the number of non-overlapping, greedy-left occurrences
// of the pattern in s. Counting always drives the backtracking matcher
// (the DFA fast path only answers existence, never multiplicity),
// preceded by the same deterministic-prefix pruner used by Match.
func (m *Matcher[T]) Count(s *State[T]) (uint64, error) {
	s.sortRows()

	if !m.guardPasses(s) {
		withGroupID(logger.Debug(), s.GroupID).Msg("guard short-circuit: a pattern condition was never observed")
		return 0, nil
	}

	ok, err := prefilter.CouldMatch(m.compiled.Actions, s.rows, seqerr.MaxIterations)
	if err != nil {
		withGroupID(logger.Warn(), s.GroupID).Err(err).Msg("deterministic-prefix pruner aborted")
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	count, err := backtrack.Count(m.compiled.Actions, s.rows)
	if err != nil {
		withGroupID(logger.Warn(), s.GroupID).Err(err).Msg("backtracking matcher aborted")
		return 0, err
	}
	return count, nil
}

// MatchedEvents returns the timestamps of the longest Specific-matched
// prefix the backtracking matcher can find in s, regardless of whether
// the full pattern ultimately matches.
//
// Unlike Match and Count, this deliberately skips the cheap guard: the
// original ClickHouse sequenceMatchEvents has the same over-approximate
// behavior, since its purpose is diagnostic ("how far did we get"), not
// a yes/no verdict, so a condition never having been observed is itself
// useful information the guard would otherwise hide. See DESIGN.md's
// Open Question decision.
func (m *Matcher[T]) MatchedEvents(s *State[T]) ([]T, error) {
	s.sortRows()

	matchedEvents, err := backtrack.MatchedEvents(m.compiled.Actions, s.rows)
	if err != nil {
		withGroupID(logger.Warn(), s.GroupID).Err(err).Msg("backtracking matcher aborted")
		return nil, err
	}
	return matchedEvents, nil
}
