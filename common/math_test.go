package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestLerpAndClamp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, -1, 1))
}

func TestNormalizeOrZero(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, NormalizeOrZero(mgl64.Vec3{}))
	n := NormalizeOrZero(mgl64.Vec3{3, 0, 4})
	assert.InDelta(t, 1, n.Len(), 1e-12)
	assert.Equal(t, mgl64.Vec3{3, 0, 4}, Horizontal(mgl64.Vec3{3, 7, 4}))
}

func TestYaw(t *testing.T) {
	fwd := Yaw(math.Pi / 2).Rotate(WorldForward)
	// A positive yaw turns forward (-Z) toward -X.
	assert.InDelta(t, -1, fwd.X(), 1e-9)
	assert.InDelta(t, 0, fwd.Z(), 1e-9)
}
