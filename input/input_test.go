package input

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
	}{
		{"forward", ActionForward},
		{" Jump ", ActionJump},
		{"toggle-fly", ActionToggleFly},
		{"FLY_UP", ActionFlyUp},
	}
	for _, c := range cases {
		got, err := ParseAction(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got)
	}

	_, err := ParseAction("crouch")
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestActionsRoundTripNames(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "action(99)", Action(99).String())
}

func TestNewMap(t *testing.T) {
	m, err := NewMap(map[string]string{"forward": "ArrowUp", "jump": " Space "})
	require.NoError(t, err)
	assert.Equal(t, Binding("ArrowUp"), m.Binding(ActionForward))
	assert.Equal(t, Binding("Space"), m.Binding(ActionJump))
	assert.Equal(t, Unbound, m.Binding(ActionLeft))
	assert.Equal(t, Unbound, m.Binding(Action(-1)))

	_, err = NewMap(map[string]string{"teleport": "T"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestMapValidate(t *testing.T) {
	known := func(b Binding) bool { return len(b) > 0 && b != "Hyper" }
	require.NoError(t, DefaultMap().Validate(known))
	require.NoError(t, DefaultMap().Validate(nil))

	m, err := NewMap(map[string]string{"jump": "Hyper"})
	require.NoError(t, err)
	err = m.Validate(known)
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "jump")
}

func TestPollLevelAndEdge(t *testing.T) {
	m := DefaultMap()
	src := NewManualSource()
	src.Press("W")
	src.Press("D")
	src.Press("Space")
	src.Press("F")

	st, tg := Poll(src, m)
	assert.Equal(t, State{Forward: true, Right: true, Jump: true}, st)
	assert.True(t, tg.Fly)

	src.Advance()
	st, tg = Poll(src, m)
	assert.Equal(t, State{Forward: true, Right: true}, st, "held jump must not retrigger")
	assert.False(t, tg.Fly)

	src.Release("Space")
	src.Advance()
	src.Press("Space")
	st, _ = Poll(src, m)
	assert.True(t, st.Jump)
}

func TestPollUnboundAndNil(t *testing.T) {
	src := NewManualSource()
	src.Press("W")
	st, _ := Poll(src, Map{})
	assert.True(t, st.Empty())

	st, tg := Poll(nil, DefaultMap())
	assert.True(t, st.Empty())
	assert.False(t, tg.Fly)
}

func TestStateClearAndMerge(t *testing.T) {
	s := State{Forward: true}
	s.Merge(State{Jump: true, Up: true})
	assert.Equal(t, State{Forward: true, Jump: true, Up: true}, s)

	s.Clear()
	assert.True(t, s.Empty())

	var nilState *State
	nilState.Clear()
	nilState.Merge(State{Jump: true})
}

func TestManualSourcePointerDrains(t *testing.T) {
	src := NewManualSource()
	src.MovePointer(3, -1)
	src.MovePointer(2, 4)
	assert.Equal(t, mgl64.Vec2{5, 3}, src.DrainPointer())
	assert.Equal(t, mgl64.Vec2{}, src.DrainPointer())
}

const walkThenJump = `
tick := func(n, state) {
	held := ["forward"]
	if n == 2 {
		held = append(held, "jump")
	}
	state.count = n + 1
	return {held: held, pointer: [n, 0.5]}
}
`

func TestScriptSource(t *testing.T) {
	src, err := NewScriptSource([]byte(walkThenJump), DefaultMap())
	require.NoError(t, err)

	var jumps []int
	for i := 0; i < 4; i++ {
		require.NoError(t, src.Advance())
		st, _ := Poll(src, DefaultMap())
		assert.True(t, st.Forward)
		if st.Jump {
			jumps = append(jumps, i)
		}
	}
	assert.Equal(t, []int{2}, jumps)
	assert.Equal(t, 4, src.Tick())
	assert.Equal(t, mgl64.Vec2{0 + 1 + 2 + 3, 2}, src.DrainPointer())
}

func TestScriptSourceErrors(t *testing.T) {
	_, err := NewScriptSource([]byte(`tick := func(n, state) {`), DefaultMap())
	assert.Error(t, err)

	src, err := NewScriptSource([]byte(`tick := func(n, state) { return {held: ["moonwalk"]} }`), DefaultMap())
	require.NoError(t, err)
	assert.ErrorIs(t, src.Advance(), ErrUnknownAction)

	src, err = NewScriptSource([]byte(`tick := func(n, state) { return 5 }`), DefaultMap())
	require.NoError(t, err)
	assert.Error(t, src.Advance())
}
