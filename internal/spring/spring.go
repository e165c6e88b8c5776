package spring

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/dynamo"
)

const (
	DefaultStiffness = -3.0
	DefaultDamping   = 0.03
)

// Spring links two nodes by ID. Stiffness is negative by convention: the
// restoring term is -Stiffness*(len-Rest)/len along the axis between the nodes.
type Spring struct {
	A, B       NodeID
	Rest       float64
	Stiffness  float64
	Damping    float64
	StringMode bool
}

// SpringOptions configures a spring added to a network. A non-positive Rest
// means the endpoints' distance when the spring is attached.
type SpringOptions struct {
	Rest       float64
	Stiffness  float64
	Damping    float64
	StringMode bool
}

func DefaultSpringOptions() SpringOptions {
	return SpringOptions{Stiffness: DefaultStiffness, Damping: DefaultDamping}
}

// Force returns the force the spring applies to a. The force on b is its
// exact negation. The restoring term is strain-normalised, -k*(len-rest)/len,
// rather than plain Hooke. ok is false when the spring applies nothing: a
// slack string, or a non-finite result from coincident endpoints.
func (s *Spring) Force(a, b *Node) (f r2.Vec, ok bool) {
	delta := r2.Sub(b.Pos, a.Pos)
	length := r2.Norm(delta)
	if s.StringMode && length < s.Rest {
		return r2.Vec{}, false
	}

	axis := r2.Scale(1/length, delta)
	stretch := -s.Stiffness * (length - s.Rest) / length
	closing := r2.Dot(r2.Sub(a.Vel, b.Vel), axis)

	f = r2.Scale(stretch-s.Damping*closing, axis)
	if !dynamo.Finite(f) {
		return r2.Vec{}, false
	}
	return f, true
}

// Extension is the current length over the rest length.
func (s *Spring) Extension(a, b *Node) float64 {
	return r2.Norm(r2.Sub(b.Pos, a.Pos)) / s.Rest
}
