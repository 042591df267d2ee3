package pattern

// ActionType tags a single compiled unit of the pattern program.
type ActionType uint8

const (
	// KleeneStar matches zero or more events, unconstrained. Every action
	// list begins with one (spec.md's "leading action is always a
	// KleeneStar"), and ".*" in the source compiles to another.
	KleeneStar ActionType = iota
	// Specific requires the next event to have a given bit set.
	Specific
	// Any matches any non-empty event.
	Any
	// TimeLessOrEqual requires cur.T <= base.T + Extra.
	TimeLessOrEqual
	// TimeLess requires cur.T < base.T + Extra.
	TimeLess
	// TimeGreaterOrEqual requires cur.T >= base.T + Extra.
	TimeGreaterOrEqual
	// TimeGreater requires cur.T > base.T + Extra.
	TimeGreater
	// TimeEqual requires cur.T == base.T + Extra.
	TimeEqual
)

// IsTime reports whether t is one of the temporal assertion types.
func (t ActionType) IsTime() bool {
	switch t {
	case TimeLessOrEqual, TimeLess, TimeGreaterOrEqual, TimeGreater, TimeEqual:
		return true
	default:
		return false
	}
}

// IsEventLike reports whether t is an action that consumes or anchors on
// an event (Specific, Any, or KleeneStar) — the only action types allowed
// to immediately precede a temporal assertion.
func (t ActionType) IsEventLike() bool {
	switch t {
	case Specific, Any, KleeneStar:
		return true
	default:
		return false
	}
}

// acceptsEmptySuffix reports whether an action at the end of the events
// stream can be skipped without consuming an event: KleeneStar, the two
// "at most" temporal assertions, and TimeGreaterOrEqual with a zero
// duration (">=0" is trivially satisfied by the empty suffix).
func (a Action) acceptsEmptySuffix() bool {
	switch a.Type {
	case KleeneStar, TimeLessOrEqual, TimeLess:
		return true
	case TimeGreaterOrEqual:
		return a.Extra == 0
	default:
		return false
	}
}

// AcceptsEmptySuffix exports acceptsEmptySuffix for matcher packages.
func (a Action) AcceptsEmptySuffix() bool { return a.acceptsEmptySuffix() }

// Action is one compiled unit of the pattern program.
type Action struct {
	Type ActionType
	// Extra holds the event bit index for Specific, or the duration for
	// a temporal assertion. Unused for Any and KleeneStar.
	Extra uint64
}

// Transition is the single outgoing labeled edge a DFA state may have.
type Transition uint8

const (
	// TransNone means the state has no deterministic transition (only
	// possibly a kleene self-loop).
	TransNone Transition = iota
	// TransAny transitions to state+1 on any non-empty event.
	TransAny
	// TransSpecific transitions to state+1 when the event has Event set.
	TransSpecific
)

// DFAState is one state of the time-free fast-path automaton. Each state
// has at most one outgoing labeled transition (to the next state) and an
// independent kleene self-loop flag.
type DFAState struct {
	Transition Transition
	Event      uint32
	HasKleene  bool
}
