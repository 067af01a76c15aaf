package input

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAction = errors.New("input: unknown action")
	ErrUnknownKey    = errors.New("input: unknown key")
)

// Action is a logical control the player can trigger.
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionRun
	ActionJump
	ActionFlyUp
	ActionFlyDown
	ActionToggleFly

	actionCount
)

var actionNames = [actionCount]string{
	ActionForward:   "forward",
	ActionBackward:  "backward",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionRun:       "run",
	ActionJump:      "jump",
	ActionFlyUp:     "fly_up",
	ActionFlyDown:   "fly_down",
	ActionToggleFly: "toggle_fly",
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Action(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Edge reports whether the action fires only on the press transition.
func (a Action) Edge() bool {
	return a == ActionJump || a == ActionToggleFly
}

// ParseAction accepts the names used in config files.
func ParseAction(name string) (Action, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	for a := Action(0); a < actionCount; a++ {
		if actionNames[a] == n {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
