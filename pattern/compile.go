package pattern

import (
	"strconv"
	"strings"

	"github.com/coregx/seqmatch/internal/conv"
)

// Compiled is the immutable result of compiling a pattern string: the
// linear action list used by the backtracking matcher, and the parallel
// DFA used by the time-free fast path.
type Compiled struct {
	// Source is the original pattern text, kept for error messages and
	// diagnostics.
	Source string

	// Actions is the action list. Actions[0] is always KleeneStar.
	Actions []Action

	// States is the DFA. len(States) == 1 + (number of Specific/Any
	// actions). States is meaningless when HasTime is true.
	States []DFAState

	// HasTime records whether any temporal action appears in Actions.
	HasTime bool

	// ConditionsInPattern is the union, as a bitmask, of every event bit
	// index mentioned by a Specific action.
	ConditionsInPattern uint32
}

// Compile parses src against the grammar documented in the package
// comment and produces a Compiled pattern. eventCount is the number of
// distinct boolean event arguments declared by the caller (1..32);
// one-based event indices in src must fall within [1, eventCount].
func Compile(src string, eventCount int) (*Compiled, error) {
	// The initial DFA state loops on itself, mirroring the leading
	// KleeneStar action, so a match may start at any row.
	c := &Compiled{
		Source:  src,
		Actions: []Action{{Type: KleeneStar}},
		States:  []DFAState{{HasKleene: true}},
	}

	pos := 0
	n := len(src)

	for pos < n {
		switch {
		case hasPrefix(src, pos, "(?"):
			next, err := c.compileParenGroup(src, pos, eventCount)
			if err != nil {
				return nil, err
			}
			pos = next

		case hasPrefix(src, pos, ".*"):
			c.Actions = append(c.Actions, Action{Type: KleeneStar})
			c.States[len(c.States)-1].HasKleene = true
			pos += 2

		case hasPrefix(src, pos, "."):
			c.Actions = append(c.Actions, Action{Type: Any})
			c.States[len(c.States)-1].Transition = TransAny
			c.States = append(c.States, DFAState{})
			pos++

		default:
			return nil, &SyntaxError{Pattern: src, Offset: pos, Msg: "could not parse pattern, unexpected starting symbol"}
		}
	}

	return c, nil
}

// compileParenGroup handles everything starting at a "(?" prefix: either
// a numeric event atom "(?3)" or a temporal assertion "(?t<=5)". Returns
// the position just past the closing ")".
func (c *Compiled) compileParenGroup(src string, pos int, eventCount int) (int, error) {
	start := pos
	pos += len("(?")

	if hasPrefix(src, pos, "t") {
		return c.compileTimeAction(src, pos+1, start)
	}

	digitsStart := pos
	pos = scanDigits(src, pos)
	if pos == digitsStart {
		return 0, &SyntaxError{Pattern: src, Offset: start, Msg: "could not parse number"}
	}

	eventNumber, err := strconv.ParseUint(src[digitsStart:pos], 10, 64)
	if err != nil {
		return 0, &SyntaxError{Pattern: src, Offset: digitsStart, Msg: "could not parse number"}
	}
	if eventNumber < 1 || eventNumber > uint64(eventCount) {
		return 0, &ArgumentError{Pattern: src, Offset: digitsStart, Msg: "event number out of range"}
	}

	if !hasPrefix(src, pos, ")") {
		return 0, &SyntaxError{Pattern: src, Offset: pos, Msg: "expected closing parenthesis"}
	}
	pos++

	// eventNumber is already bounds-checked against eventCount above, so
	// this narrowing can never panic; it goes through the shared helper
	// for consistency with the rest of the module's int/uint64 casts.
	bit := conv.Uint64ToUint32(eventNumber - 1)
	c.Actions = append(c.Actions, Action{Type: Specific, Extra: uint64(bit)})
	c.States[len(c.States)-1].Transition = TransSpecific
	c.States[len(c.States)-1].Event = bit
	c.States = append(c.States, DFAState{})
	c.ConditionsInPattern |= 1 << bit

	return pos, nil
}

// compileTimeAction parses the operator and unsigned duration of a
// "(?t<op><uint>)" group. pos points just past the "t".
func (c *Compiled) compileTimeAction(src string, pos int, groupStart int) (int, error) {
	var actionType ActionType
	switch {
	case hasPrefix(src, pos, "<="):
		actionType = TimeLessOrEqual
		pos += 2
	case hasPrefix(src, pos, ">="):
		actionType = TimeGreaterOrEqual
		pos += 2
	case hasPrefix(src, pos, "=="):
		actionType = TimeEqual
		pos += 2
	case hasPrefix(src, pos, "<"):
		actionType = TimeLess
		pos++
	case hasPrefix(src, pos, ">"):
		actionType = TimeGreater
		pos++
	default:
		return 0, &SyntaxError{Pattern: src, Offset: pos, Msg: "unknown time condition"}
	}

	durStart := pos
	pos = scanDigits(src, pos)
	if pos == durStart {
		return 0, &SyntaxError{Pattern: src, Offset: durStart, Msg: "could not parse number"}
	}
	duration, err := strconv.ParseUint(src[durStart:pos], 10, 64)
	if err != nil {
		return 0, &SyntaxError{Pattern: src, Offset: durStart, Msg: "could not parse number"}
	}

	if !hasPrefix(src, pos, ")") {
		return 0, &SyntaxError{Pattern: src, Offset: pos, Msg: "expected closing parenthesis"}
	}
	pos++

	prev := c.Actions[len(c.Actions)-1]
	if !prev.Type.IsEventLike() {
		return 0, &ArgumentError{Pattern: src, Offset: groupStart, Msg: "temporal condition must be preceded by an event condition"}
	}

	c.HasTime = true
	c.Actions = append(c.Actions, Action{Type: actionType, Extra: duration})
	// A temporal action never extends the DFA: the DFA is only valid
	// for time-free patterns (spec.md §4.C2).

	return pos, nil
}

func hasPrefix(s string, pos int, prefix string) bool {
	return strings.HasPrefix(s[pos:], prefix)
}

func scanDigits(s string, pos int) int {
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		pos++
	}
	return pos
}
