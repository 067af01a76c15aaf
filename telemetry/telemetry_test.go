package telemetry

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/controller"
	"github.com/milk9111/locomotion/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(step int, vx float64, grounded bool) controller.Report {
	return controller.Report{
		Step: step,
		Time: float64(step) / 60,
		Body: 1,
		State: physics.BodyState{
			Transform:      physics.Transform{Position: mgl64.Vec3{float64(step), 1, 0}},
			LinearVelocity: mgl64.Vec3{vx, -1, 0},
		},
		Ground:  controller.GroundSample{Hit: grounded, Distance: 1.1},
		Mode:    controller.ModeGrounded,
		Command: controller.Command{Force: mgl64.Vec3{1, 2, 3}, Vertical: controller.VerticalSuspension},
		YawRate: -2,
	}
}

func TestRecorderWritesCSV(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	r.Observe(report(0, 3, true))
	r.Observe(report(1, 4, false))
	require.NoError(t, r.Err())

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("step,time")))

	got, err := ReadSamples(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, r.Samples(), got)
	assert.Equal(t, "grounded", got[0].Mode)
	assert.Equal(t, "suspension", got[0].Vertical)
	assert.InDelta(t, 3.0, got[0].Speed, 1e-9)
	assert.False(t, got[1].Grounded)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorderKeepsFirstError(t *testing.T) {
	r := NewRecorder(failingWriter{})
	r.Observe(report(0, 1, true))
	r.Observe(report(1, 1, true))
	assert.Error(t, r.Err())
	assert.Len(t, r.Samples(), 2)
}

func TestRecorderWithoutWriter(t *testing.T) {
	r := NewRecorder(nil)
	r.Observe(report(0, 1, true))
	assert.NoError(t, r.Err())
	assert.Len(t, r.Samples(), 1)
}

func TestSummarize(t *testing.T) {
	samples := []Sample{
		{Speed: 2, Grounded: true, GroundDist: 1.1, YawRate: -3},
		{Speed: 4, Grounded: true, GroundDist: 0.9},
		{Speed: 6, Grounded: false, YawRate: 1},
	}
	s := Summarize(samples, 1)
	assert.Equal(t, 3, s.Steps)
	assert.InDelta(t, 4.0, s.MeanSpeed, 1e-9)
	assert.InDelta(t, 2.0, s.StdSpeed, 1e-9)
	assert.Equal(t, 6.0, s.MaxSpeed)
	assert.InDelta(t, 2.0/3, s.GroundedRatio, 1e-9)
	assert.InDelta(t, 0.0, s.MeanRideError, 1e-9)
	assert.Equal(t, 3.0, s.MaxYawRate)

	assert.Equal(t, Summary{}, Summarize(nil, 1))
	one := Summarize([]Sample{{Speed: 5}}, 1)
	assert.Equal(t, 0.0, one.StdSpeed)
}
