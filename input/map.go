package input

import (
	"fmt"
	"strings"
)

// Binding names a raw input, e.g. "W", "Space" or "ShiftLeft".
type Binding string

// Unbound marks an action with no raw input.
const Unbound Binding = ""

// Map binds each action to one raw input. It is built once and never
// mutated; rebinding means building a new Map.
type Map struct {
	bindings [actionCount]Binding
}

// DefaultMap mirrors the classic WASD layout.
func DefaultMap() Map {
	var m Map
	m.bindings[ActionForward] = "W"
	m.bindings[ActionBackward] = "S"
	m.bindings[ActionLeft] = "A"
	m.bindings[ActionRight] = "D"
	m.bindings[ActionRun] = "ShiftLeft"
	m.bindings[ActionJump] = "Space"
	m.bindings[ActionFlyUp] = "E"
	m.bindings[ActionFlyDown] = "Q"
	m.bindings[ActionToggleFly] = "F"
	return m
}

// NewMap builds a map from action names to bindings. Actions missing from
// names stay unbound.
func NewMap(names map[string]string) (Map, error) {
	var m Map
	for name, key := range names {
		a, err := ParseAction(name)
		if err != nil {
			return Map{}, err
		}
		m.bindings[a] = Binding(strings.TrimSpace(key))
	}
	return m, nil
}

// Binding returns the raw input bound to a.
func (m Map) Binding(a Action) Binding {
	if a < 0 || a >= actionCount {
		return Unbound
	}
	return m.bindings[a]
}

// Validate reports the first bound key that known rejects.
func (m Map) Validate(known func(Binding) bool) error {
	for a := Action(0); a < actionCount; a++ {
		b := m.bindings[a]
		if b == Unbound || known == nil {
			continue
		}
		if !known(b) {
			return fmt.Errorf("%w: %q bound to %s", ErrUnknownKey, string(b), a)
		}
	}
	return nil
}
