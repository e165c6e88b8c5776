package integrators

import "gonum.org/v1/gonum/spatial/r2"

const (
	DefaultRetention = 0.97
	DefaultDecay     = 0.3
)

// DampedEuler is an explicit Euler step with velocity friction. Acceleration
// is decayed rather than cleared so contributions fade over a few frames.
type DampedEuler struct {
	Retention float64
	Decay     float64
}

func NewDampedEuler() *DampedEuler {
	return &DampedEuler{Retention: DefaultRetention, Decay: DefaultDecay}
}

func (e *DampedEuler) Advance(pos, vel, acc *r2.Vec) {
	*vel = r2.Add(*vel, *acc)
	*pos = r2.Add(*pos, *vel)
	*vel = r2.Scale(e.Retention, *vel)
	*acc = r2.Scale(e.Decay, *acc)
}
