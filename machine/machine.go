package machine

import (
	"fmt"
	"sort"
)

// TypeNone marks a non-accepting state.
const TypeNone = -1

const (
	// StateDead is the sink. It has no outgoing transitions, and entering it
	// terminates the current match attempt.
	StateDead = 0

	// StateStart is the state every match attempt begins in. No transition
	// may target it.
	StateStart = 1
)

// Machine is a deterministic finite automaton over the ASCII range 1..127.
// AddRule extends the transition table so that every string matching a
// pattern reaches a state carrying the pattern's accept type. Extension is
// strictly additive: a transition or an accept type, once set, is never
// rewritten. A machine that is no longer extended is safe for concurrent
// readers.
type Machine struct {
	transitions []map[byte]int
	types       []int
}

// New returns an empty machine containing just the dead state and the start
// state, both non-accepting.
func New() *Machine {
	return &Machine{
		transitions: make([]map[byte]int, 2),
		types:       []int{TypeNone, TypeNone},
	}
}

// NewFromPatterns builds a machine from a list of patterns whose accept types
// are their indexes in the list.
func NewFromPatterns(patterns []string) (*Machine, error) {
	m := New()
	for i, p := range patterns {
		err := m.AddRule(p, i)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewFromTable builds a machine from a prebuilt transition table. Row r of
// transitions describes state r+1; the dead state is implicit. types must
// have the same length as transitions.
func NewFromTable(transitions []map[byte]int, types []int) (*Machine, error) {
	if len(transitions) == 0 {
		return nil, fmt.Errorf("a state table must have at least one row")
	}
	if len(transitions) != len(types) {
		return nil, fmt.Errorf("a state table and its types must have the same number of rows; rows: %v, types: %v", len(transitions), len(types))
	}
	m := &Machine{
		transitions: make([]map[byte]int, len(transitions)+1),
		types:       make([]int, len(types)+1),
	}
	m.types[StateDead] = TypeNone
	for r, tr := range transitions {
		if len(tr) > 0 {
			dup := make(map[byte]int, len(tr))
			for c, to := range tr {
				dup[c] = to
			}
			m.transitions[r+1] = dup
		}
		m.types[r+1] = types[r]
	}
	return m, nil
}

// AddRule extends the machine so that every string matching pattern reaches a
// state whose accept type is typ. On failure the machine's contents are
// undefined; callers should discard it.
func (m *Machine) AddRule(pattern string, typ int) error {
	if pattern == "" {
		return &CompileError{Pattern: pattern, Cause: errNullPattern}
	}
	endSet, err := m.compileSequence([]int{StateStart}, pattern)
	if err != nil {
		return &CompileError{Pattern: pattern, Cause: err}
	}
	for _, s := range endSet {
		err := m.setType(s, typ)
		if err != nil {
			return &CompileError{Pattern: pattern, Cause: err}
		}
	}
	return nil
}

// StateCount returns the number of states, including the dead state.
func (m *Machine) StateCount() int {
	return len(m.transitions)
}

// Next returns the successor of state on c, or StateDead when no transition
// is set.
func (m *Machine) Next(state int, c byte) int {
	if state < 0 || state >= len(m.transitions) {
		return StateDead
	}
	return m.transitions[state][c]
}

// AcceptType returns the accept type of state, or TypeNone.
func (m *Machine) AcceptType(state int) int {
	if state < 0 || state >= len(m.types) {
		return TypeNone
	}
	return m.types[state]
}

// TransitionCount returns the number of outgoing transitions of state.
func (m *Machine) TransitionCount(state int) int {
	if state < 0 || state >= len(m.transitions) {
		return 0
	}
	return len(m.transitions[state])
}

func (m *Machine) grow(state int) {
	for len(m.transitions) <= state {
		m.transitions = append(m.transitions, nil)
		m.types = append(m.types, TypeNone)
	}
}

// chooseState picks the successor for a transition out of state on c: an
// already-registered successor is reused, otherwise the next free state index
// is allocated.
func (m *Machine) chooseState(state int, c byte) int {
	next := m.Next(state, c)
	if next != StateDead {
		return next
	}
	return len(m.transitions)
}

func (m *Machine) setTransition(from int, c byte, to int) error {
	if from == StateDead {
		return fmt.Errorf("cannot add a transition to the dead state")
	}
	if to == StateStart {
		return fmt.Errorf("cannot add a transition back to the start state")
	}
	m.grow(from)
	m.grow(to)
	tr := m.transitions[from]
	if tr == nil {
		tr = map[byte]int{}
		m.transitions[from] = tr
	}
	if cur, ok := tr[c]; ok {
		if cur != to {
			return fmt.Errorf("conflicting transition from state %v on %q: %v and %v", from, string(c), cur, to)
		}
		return nil
	}
	tr[c] = to
	return nil
}

func (m *Machine) setType(state int, typ int) error {
	m.grow(state)
	old := m.types[state]
	if typ == old {
		return nil
	}
	if old != TypeNone {
		return fmt.Errorf("conflicting accept type on state %v: %v and %v", state, old, typ)
	}
	m.types[state] = typ
	return nil
}

func (m *Machine) sortedKeys(state int) []byte {
	tr := m.transitions[state]
	keys := make([]byte, 0, len(tr))
	for c := range tr {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Iterator walks the machine one character at a time, remembering the most
// recent accept type seen along the path.
type Iterator struct {
	m     *Machine
	state int
	typ   int
}

// Iterator returns a cursor positioned at the start state.
func (m *Machine) Iterator() *Iterator {
	return &Iterator{
		m:     m,
		state: StateStart,
		typ:   TypeNone,
	}
}

// Next advances the cursor by one character. Once the cursor enters the dead
// state it stays there, but the last accept type seen is retained.
func (it *Iterator) Next(c byte) {
	it.state = it.m.Next(it.state, c)
	if t := it.m.AcceptType(it.state); t != TypeNone {
		it.typ = t
	}
}

// State returns the current state.
func (it *Iterator) State() int {
	return it.state
}

// Type returns the accept type of the most recent accepting state the cursor
// passed, or TypeNone.
func (it *Iterator) Type() int {
	return it.typ
}

// AtEnd reports whether the cursor is in the dead state.
func (it *Iterator) AtEnd() bool {
	return it.state == StateDead
}
