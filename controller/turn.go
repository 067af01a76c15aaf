package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// AccumulatePointer sums pointer samples and negates the total so that
// look is inverted.
func AccumulatePointer(samples ...mgl64.Vec2) mgl64.Vec2 {
	var d mgl64.Vec2
	for _, s := range samples {
		d = d.Sub(s)
	}
	return d
}

// YawRate turns an accumulated delta into a yaw rate command. It is a rate
// for this step only and is never carried over.
func YawRate(delta mgl64.Vec2, maxRate float64) float64 {
	return common.Clamp(delta.X(), -maxRate, maxRate)
}
