package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/physics"
)

var probeDir = mgl64.Vec3{0, -1, 0}

// GroundSample is the result of one downward probe. Distance and Normal are
// only meaningful when Hit is set.
type GroundSample struct {
	Hit      bool
	Distance float64
	Normal   mgl64.Vec3
	Body     physics.BodyID
}

// Probe casts straight down from origin, ignoring the body's own colliders.
func Probe(w physics.World, id physics.BodyID, origin mgl64.Vec3, maxDistance float64) GroundSample {
	if w == nil || maxDistance <= 0 {
		return GroundSample{}
	}
	hit, ok := w.CastRay(origin, probeDir, maxDistance, id)
	if !ok {
		return GroundSample{}
	}
	return GroundSample{
		Hit:      true,
		Distance: hit.Distance,
		Normal:   hit.Normal,
		Body:     hit.Body,
	}
}

// Suspension is the spring-damper force along world up that holds the body
// at ride height. A miss yields zero.
func Suspension(cfg Config, g GroundSample, vy float64) float64 {
	if !g.Hit {
		return 0
	}
	return cfg.SpringStrength*(cfg.RideHeight-g.Distance) - cfg.SpringDamping*vy
}
