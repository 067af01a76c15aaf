package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var down = mgl64.Vec3{0, -1, 0}

func TestCastRay(t *testing.T) {
	s := NewSim(SimConfig{Ground: true})
	s.AddBox(Box{Min: mgl64.Vec3{2, 0, -1}, Max: mgl64.Vec3{4, 0.5, 1}})
	self := s.AddBody(BodyDef{Position: mgl64.Vec3{0, 1, 0}, Radius: 0.5})
	other := s.AddBody(BodyDef{Position: mgl64.Vec3{-3, 0.5, 0}, Radius: 0.5})

	cases := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		max      float64
		exclude  BodyID
		wantHit  bool
		wantDist float64
		wantBody BodyID
	}{
		{"ground_excluding_self", mgl64.Vec3{0, 1, 0}, down, 3, self, true, 1, 0},
		{"self_not_excluded", mgl64.Vec3{0, 1, 0}, down, 3, 0, true, 0.5, self},
		{"box_top", mgl64.Vec3{3, 2, 0}, down, 3, 0, true, 1.5, 0},
		{"beyond_max_distance", mgl64.Vec3{0, 10, 0}, down, 3, self, false, 0, 0},
		{"other_body", mgl64.Vec3{-3, 3, 0}, down, 5, self, true, 2, other},
		{"unnormalised_direction", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -7, 0}, 3, self, true, 1, 0},
		{"upward_misses_plane", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 50, self, false, 0, 0},
		{"zero_direction", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 3, self, false, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := s.CastRay(c.origin, c.dir, c.max, c.exclude)
			require.Equal(t, c.wantHit, ok)
			if !ok {
				return
			}
			assert.InDelta(t, c.wantDist, hit.Distance, 1e-9)
			assert.Equal(t, c.wantBody, hit.Body)
		})
	}
}

func TestRayBoxHitNormals(t *testing.T) {
	box := Box{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	dist, n, ok := rayBoxHit(mgl64.Vec3{0, 5, 0}, down, box)
	require.True(t, ok)
	assert.InDelta(t, 4.0, dist, 1e-9)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, n)

	dist, n, ok = rayBoxHit(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{1, 0, 0}, box)
	require.True(t, ok)
	assert.InDelta(t, 4.0, dist, 1e-9)
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, n)

	_, _, ok = rayBoxHit(mgl64.Vec3{5, 5, 0}, down, box)
	assert.False(t, ok)
}
