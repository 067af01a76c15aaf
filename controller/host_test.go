package controller

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

type rig struct {
	sim  *physics.Sim
	src  *input.ManualSource
	host *Host
	ctrl *Controller
	id   physics.BodyID
}

func newRig(t *testing.T, kind StrategyKind, start mgl64.Vec3) *rig {
	t.Helper()
	sim := physics.NewSim(physics.SimConfig{Gravity: physics.DefaultGravity, Ground: true})
	id := sim.AddBody(physics.BodyDef{Position: start})
	src := input.NewManualSource()

	s, err := NewStrategy(kind)
	require.NoError(t, err)
	c, err := New(id, DefaultConfig(), input.DefaultMap(), s)
	require.NoError(t, err)

	h := NewHost(sim, src, zerolog.Nop())
	h.Add(c)
	return &rig{sim: sim, src: src, host: h, ctrl: c, id: id}
}

func (r *rig) step(t *testing.T) physics.BodyState {
	t.Helper()
	require.NoError(t, r.host.Step(context.Background(), dt))
	r.src.Advance()
	st, ok := r.sim.Body(r.id)
	require.True(t, ok)
	return st
}

type recordingSink struct {
	poses []Pose
}

func (s *recordingSink) Present(_ physics.BodyID, p Pose) {
	s.poses = append(s.poses, p)
}

func TestInputClearedAfterStep(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	r.src.Press("W")
	r.src.Press("Space")
	r.src.Press("ShiftLeft")
	r.src.MovePointer(5, 5)

	r.step(t)
	assert.True(t, r.ctrl.Input().Empty())
}

func TestEquilibriumAtRideHeight(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})

	r.step(t)
	cmd := r.ctrl.LastCommand()
	assert.Equal(t, ModeGrounded, r.ctrl.Mode())
	assert.Equal(t, VerticalSuspension, cmd.Vertical)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0.0, cmd.Force[i], 1e-9)
	}
	assert.InDelta(t, 0.0, r.ctrl.SuspensionForce(), 1e-9)
}

func TestJumpIgnoredWhileAirborne(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 10, 0})
	r.src.Press("Space")

	st := r.step(t)
	assert.Equal(t, ModeAirborne, r.ctrl.Mode())
	assert.Equal(t, mgl64.Vec3{}, r.ctrl.LastCommand().Impulse)
	assert.InDelta(t, physics.DefaultGravity.Y()*dt, st.LinearVelocity.Y(), 1e-9)
}

func TestJumpWhileGrounded(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	r.src.Press("Space")

	st := r.step(t)
	assert.Equal(t, VerticalJump, r.ctrl.LastCommand().Vertical)
	assert.Equal(t, 0.0, r.ctrl.SuspensionForce())
	assert.InDelta(t, DefaultConfig().JumpSpeed+physics.DefaultGravity.Y()*dt, st.LinearVelocity.Y(), 1e-9)

	// holding jump does not retrigger
	r.step(t)
	assert.NotEqual(t, VerticalJump, r.ctrl.LastCommand().Vertical)
}

func TestForwardConvergesToWalkSpeed(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	walk := DefaultConfig().WalkSpeed
	r.src.Press("W")

	var speed float64
	for i := 0; i < 600; i++ {
		st := r.step(t)
		next := common.Horizontal(st.LinearVelocity).Len()
		require.LessOrEqual(t, next, walk+1e-9, "step %d", i)
		require.GreaterOrEqual(t, next, speed-1e-9, "step %d", i)
		speed = next
	}
	assert.InDelta(t, walk, speed, 1e-3)

	st, _ := r.sim.Body(r.id)
	assert.Less(t, st.Transform.Position.Z(), 0.0)
	assert.Equal(t, ModeGrounded, r.ctrl.Mode())
}

func TestRunUsesRunSpeed(t *testing.T) {
	r := newRig(t, StrategyDirect, mgl64.Vec3{0, 0.5, 0})
	r.src.Press("W")
	r.src.Press("ShiftLeft")

	st := r.step(t)
	assert.InDelta(t, DefaultConfig().RunSpeed, common.Horizontal(st.LinearVelocity).Len(), 1e-9)
}

func TestKinematicMovesOnlyWhenGrounded(t *testing.T) {
	r := newRig(t, StrategyKinematic, mgl64.Vec3{0, 0.5, 0})
	r.src.Press("D")

	st := r.step(t)
	assert.InDelta(t, DefaultConfig().WalkSpeed*dt, st.Transform.Position.X(), 1e-9)

	high := newRig(t, StrategyKinematic, mgl64.Vec3{0, 10, 0})
	high.src.Press("D")
	st = high.step(t)
	assert.Equal(t, 0.0, st.Transform.Position.X())
}

func TestKinematicJumpStopsOnLanding(t *testing.T) {
	r := newRig(t, StrategyKinematic, mgl64.Vec3{0, 0.5, 0})
	r.src.Press("W")
	r.src.Press("Space")

	st := r.step(t)
	require.Equal(t, VerticalJump, r.ctrl.LastCommand().Vertical)
	assert.Greater(t, st.LinearVelocity.Y(), 0.0)

	r.src.Release("W")
	r.src.Release("Space")
	for i := 0; i < 180; i++ {
		st = r.step(t)
	}
	require.Equal(t, ModeGrounded, r.ctrl.Mode())

	landed := st.Transform.Position
	for i := 0; i < 60; i++ {
		st = r.step(t)
	}
	assert.InDelta(t, 0.0, common.Horizontal(st.LinearVelocity).Len(), 1e-9)
	assert.InDelta(t, 0.0, common.Horizontal(st.Transform.Position.Sub(landed)).Len(), 1e-9)
}

func TestTurnIsARateCommand(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	r.src.MovePointer(-10000, 0)

	st := r.step(t)
	assert.Equal(t, 10.0, st.AngularVelocity.Y())
	assert.Equal(t, 10.0, r.ctrl.YawRate())

	st = r.step(t)
	assert.Equal(t, 0.0, st.AngularVelocity.Y())
}

func TestFlyToggle(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	r.src.Press("F")

	st := r.step(t)
	require.True(t, r.ctrl.Flying())
	assert.Equal(t, ModeFlying, r.ctrl.Mode())
	assert.InDelta(t, 0.0, st.LinearVelocity.Y(), 1e-9)
	assert.Equal(t, VerticalFlight, r.ctrl.LastCommand().Vertical)

	r.src.Release("F")
	r.src.Press("E")
	r.src.Press("Space")
	st = r.step(t)
	assert.InDelta(t, DefaultConfig().FlySpeed*dt, st.LinearVelocity.Y(), 1e-9)
	assert.Equal(t, mgl64.Vec3{}, r.ctrl.LastCommand().Impulse)

	r.src.Release("E")
	r.src.Release("Space")
	r.src.Press("F")
	r.step(t)
	assert.False(t, r.ctrl.Flying())
}

func TestFlyFromConfig(t *testing.T) {
	sim := physics.NewSim(physics.SimConfig{Gravity: physics.DefaultGravity})
	id := sim.AddBody(physics.BodyDef{Position: mgl64.Vec3{0, 50, 0}})
	cfg := DefaultConfig()
	cfg.Fly = true
	c, err := New(id, cfg, input.DefaultMap(), ForceStrategy{})
	require.NoError(t, err)
	h := NewHost(sim, input.NewManualSource(), zerolog.Nop())
	h.Add(c)

	for i := 0; i < 10; i++ {
		require.NoError(t, h.Step(context.Background(), dt))
	}
	st, _ := sim.Body(id)
	assert.InDelta(t, 50.0, st.Transform.Position.Y(), 1e-9)
}

func TestMissingBodySkipped(t *testing.T) {
	sim := physics.NewSim(physics.SimConfig{Gravity: physics.DefaultGravity, Ground: true})
	src := input.NewManualSource()
	c, err := New(42, DefaultConfig(), input.DefaultMap(), ForceStrategy{})
	require.NoError(t, err)
	sink := &recordingSink{}
	h := NewHost(sim, src, zerolog.Nop())
	h.Add(c)
	h.AddSink(sink)

	src.Press("W")
	src.Press("F")
	require.NoError(t, h.Step(context.Background(), dt))
	assert.Empty(t, sink.poses)
	assert.True(t, c.Input().Empty())
	assert.False(t, c.Flying())
	assert.Equal(t, 1, h.Steps())
}

func TestSinksAndObservers(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	sink := &recordingSink{}
	var reports []Report
	r.host.AddSink(sink)
	r.host.AddObserver(ObserverFunc(func(rep Report) { reports = append(reports, rep) }))

	r.step(t)
	r.step(t)

	require.Len(t, sink.poses, 2)
	require.Len(t, reports, 2)
	assert.Equal(t, 0, reports[0].Step)
	assert.Equal(t, 1, reports[1].Step)
	assert.InDelta(t, 2*dt, reports[1].Time, 1e-12)
	assert.Equal(t, r.id, reports[1].Body)

	st, _ := r.sim.Body(r.id)
	assert.Equal(t, Follow(st.Transform, DefaultConfig().Camera), sink.poses[1])
}

func TestStepHonoursContext(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.host.Step(ctx, dt), context.Canceled)
	assert.Equal(t, 0, r.host.Steps())
}

func TestHostRegistry(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})
	got, ok := r.host.Controller(r.id)
	require.True(t, ok)
	assert.Same(t, r.ctrl, got)
	assert.Len(t, r.host.Controllers(), 1)

	assert.True(t, r.host.Remove(r.id))
	assert.False(t, r.host.Remove(r.id))
	_, ok = r.host.Controller(r.id)
	assert.False(t, ok)
}

func TestReconfigure(t *testing.T) {
	r := newRig(t, StrategyForce, mgl64.Vec3{0, 1, 0})

	bad := DefaultConfig()
	bad.RideHeight = -1
	assert.ErrorIs(t, r.host.Reconfigure(bad, input.DefaultMap(), StrategyDirect), ErrInvalidConfig)
	assert.Equal(t, StrategyForce, r.ctrl.Strategy().Kind())

	assert.ErrorIs(t, r.host.Reconfigure(DefaultConfig(), input.DefaultMap(), StrategyKind(9)), ErrInvalidConfig)

	good := DefaultConfig()
	good.WalkSpeed = 3
	require.NoError(t, r.host.Reconfigure(good, input.DefaultMap(), StrategyDirect))
	assert.Equal(t, StrategyDirect, r.ctrl.Strategy().Kind())
	assert.Equal(t, 3.0, r.ctrl.Config().WalkSpeed)

	r.src.Press("W")
	st := r.step(t)
	assert.InDelta(t, 3.0, math.Abs(st.LinearVelocity.Z()), 1e-9)
}

func TestNewRejectsInvalid(t *testing.T) {
	bad := DefaultConfig()
	bad.WalkSpeed = 0
	_, err := New(1, bad, input.DefaultMap(), ForceStrategy{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(1, DefaultConfig(), input.DefaultMap(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
