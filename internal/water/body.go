package water

import "gonum.org/v1/gonum/spatial/r2"

const (
	DefaultDrag = 0.84
	// DefaultThrowScale converts pointer motion over one frame into launch velocity.
	DefaultThrowScale = 0.2
)

var DefaultGravity = r2.Vec{X: 0, Y: 0.5}

// Body is a rock falling through the surface. It never floats or bounces.
type Body struct {
	Pos r2.Vec
	Vel r2.Vec
	// Entered is set once the body has splashed; it splashes only once.
	Entered bool
}

// Update advances the body one frame against the surface level at its
// position: drag applies while below it, then position and gravity.
func (b *Body) Update(surface float64, gravity r2.Vec, drag float64) {
	if b.Pos.Y > surface {
		b.Vel = r2.Scale(drag, b.Vel)
	}
	b.Pos = r2.Add(b.Pos, b.Vel)
	b.Vel = r2.Add(b.Vel, gravity)
}

// Crosses reports whether the next position update takes the body from above
// surface to on or below it.
func (b *Body) Crosses(surface float64) bool {
	return b.Pos.Y < surface && b.Pos.Y+b.Vel.Y >= surface
}
