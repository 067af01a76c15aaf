package input

import "github.com/go-gl/mathgl/mgl64"

// Source is the raw input device a controller polls once per step.
type Source interface {
	// Pressed reports whether b is held this step.
	Pressed(b Binding) bool
	// JustPressed reports whether b went from released to pressed this step.
	JustPressed(b Binding) bool
	// DrainPointer returns the summed pointer motion since the last drain.
	DrainPointer() mgl64.Vec2
}

// State is one step of movement intent. It is written by Poll and cleared
// once the step has been resolved.
type State struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Run      bool
	Jump     bool
	Up       bool
	Down     bool
}

// Toggles carries edge-triggered mode switches that are not movement intent.
type Toggles struct {
	Fly bool
}

// Poll samples src through m. Jump and toggle-fly are edge triggered; the
// rest are level triggered.
func Poll(src Source, m Map) (State, Toggles) {
	if src == nil {
		return State{}, Toggles{}
	}
	active := func(a Action) bool {
		b := m.Binding(a)
		if b == Unbound {
			return false
		}
		if a.Edge() {
			return src.JustPressed(b)
		}
		return src.Pressed(b)
	}

	st := State{
		Forward:  active(ActionForward),
		Backward: active(ActionBackward),
		Left:     active(ActionLeft),
		Right:    active(ActionRight),
		Run:      active(ActionRun),
		Jump:     active(ActionJump),
		Up:       active(ActionFlyUp),
		Down:     active(ActionFlyDown),
	}
	return st, Toggles{Fly: active(ActionToggleFly)}
}

// Merge ORs other into s, so several polls before one resolve never lose a
// single-step press.
func (s *State) Merge(other State) {
	if s == nil {
		return
	}
	s.Forward = s.Forward || other.Forward
	s.Backward = s.Backward || other.Backward
	s.Left = s.Left || other.Left
	s.Right = s.Right || other.Right
	s.Run = s.Run || other.Run
	s.Jump = s.Jump || other.Jump
	s.Up = s.Up || other.Up
	s.Down = s.Down || other.Down
}

// Clear resets every flag.
func (s *State) Clear() {
	if s == nil {
		return
	}
	*s = State{}
}

// Empty reports whether no flag is set.
func (s State) Empty() bool {
	return s == State{}
}
