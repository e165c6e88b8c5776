package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Separation samples the distance between two nodes of a flattened x, y
// state and reports its mean.
type Separation struct {
	name    string
	a, b    int
	samples []float64
}

// NewSeparation watches nodes a and b, given as indices into the node order.
func NewSeparation(a, b int) *Separation {
	return &Separation{name: "separation", a: a, b: b}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(x dynamo.State, _ float64) {
	ia, ib := 2*s.a, 2*s.b
	if ia+1 >= len(x) || ib+1 >= len(x) {
		return
	}
	s.samples = append(s.samples, math.Hypot(x[ib]-x[ia], x[ib+1]-x[ia+1]))
}

func (s *Separation) Value() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

// StdDev is the spread of the sampled distances.
func (s *Separation) StdDev() float64 {
	if len(s.samples) < 2 {
		return 0
	}
	return stat.StdDev(s.samples, nil)
}

// Tail returns the mean over the last n samples.
func (s *Separation) Tail(n int) float64 {
	if n <= 0 || len(s.samples) == 0 {
		return 0
	}
	n = min(n, len(s.samples))
	return stat.Mean(s.samples[len(s.samples)-n:], nil)
}

func (s *Separation) Reset() { s.samples = s.samples[:0] }
