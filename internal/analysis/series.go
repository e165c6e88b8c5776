package analysis

import (
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/metrics"
)

// Component extracts state index idx from every recorded state. States too
// short to hold it contribute NaN.
func Component(states []dynamo.State, idx int) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		if idx < len(s) {
			out[i] = s[idx]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Separation is the distance between nodes a and b of flattened x, y states.
func Separation(states []dynamo.State, a, b int) []float64 {
	out := make([]float64, 0, len(states))
	for _, s := range states {
		if 2*a+1 >= len(s) || 2*b+1 >= len(s) {
			continue
		}
		out = append(out, math.Hypot(s[2*b]-s[2*a], s[2*b+1]-s[2*a+1]))
	}
	return out
}

// Spread summarises a node separation over a run.
type Spread struct {
	Mean   float64
	StdDev float64
	// Tail is the mean over the last TailFrames samples.
	Tail       float64
	TailFrames int
}

// SeparationSpread replays states through a separation metric.
func SeparationSpread(states []dynamo.State, a, b, tail int) Spread {
	sep := metrics.NewSeparation(a, b)
	for i, s := range states {
		sep.Observe(s, float64(i))
	}
	return Spread{
		Mean:       sep.Value(),
		StdDev:     sep.StdDev(),
		Tail:       sep.Tail(tail),
		TailFrames: tail,
	}
}

// Crossings returns the indices where series rises through threshold.
func Crossings(series []float64, threshold float64) []int {
	var out []int
	for i := 1; i < len(series); i++ {
		if series[i-1] < threshold && series[i] >= threshold {
			out = append(out, i)
		}
	}
	return out
}

// MeanPeriod averages the spacing of consecutive crossings, in frames.
func MeanPeriod(crossings []int) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return float64(crossings[len(crossings)-1]-crossings[0]) / float64(len(crossings)-1)
}
