package main

import "github.com/go-gl/mathgl/mgl64"

// Rect is a screen panel that shows a square window of the world.
type Rect struct {
	X, Y          float32
	Width, Height float32
	// Span is the world distance covered by the shorter side.
	Span float64
}

// Project maps world coordinates (u right, v up) around centre (cu, cv)
// into the panel.
func (r Rect) Project(u, v, cu, cv float64) (float32, float32) {
	scale := r.scale()
	x := r.X + r.Width/2 + float32((u-cu)*scale)
	y := r.Y + r.Height/2 - float32((v-cv)*scale)
	return x, y
}

// Size scales a world length into the panel.
func (r Rect) Size(l float64) float32 {
	return float32(l * r.scale())
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

func (r Rect) scale() float64 {
	side := r.Width
	if r.Height < side {
		side = r.Height
	}
	if r.Span <= 0 {
		return 1
	}
	return float64(side) / r.Span
}

// topDown projects onto the ground plane with -Z pointing up the screen.
func topDown(p mgl64.Vec3) (float64, float64) {
	return p.X(), -p.Z()
}

// side projects onto the X/Y plane.
func side(p mgl64.Vec3) (float64, float64) {
	return p.X(), p.Y()
}
