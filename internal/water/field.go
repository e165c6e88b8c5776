// Package water simulates a 1D water surface as a row of spring-coupled
// columns, plus falling bodies that splash into it.
//
// Coordinates are screen-like: y grows downward, so a positive height
// deviation pushes the surface down and a positive splash speed sinks the
// column it hits.
package water

import (
	"fmt"
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
)

const (
	MinTension   = 0.0025
	MaxTension   = 0.5
	MinDampening = 0.0025
	MaxDampening = 0.1
	MinSpread    = 0.01
	MaxSpread    = 0.5

	DefaultTension   = 0.025
	DefaultDampening = 0.025
	DefaultSpread    = 0.25

	// TuneFactor is the per-frame multiplier applied while a tuning key is held.
	TuneFactor = 63.0 / 64.0
)

// Knob names one of the field's tunable coefficients.
type Knob int

const (
	Tension Knob = iota
	Dampening
	Spread
)

func (k Knob) String() string {
	switch k {
	case Tension:
		return "tension"
	case Dampening:
		return "dampening"
	case Spread:
		return "spread"
	}
	return fmt.Sprintf("knob(%d)", int(k))
}

// Field holds N columns spaced evenly over [0, width]. Column i sits at
// x = i * width / (N-1).
type Field struct {
	Level float64

	heights []float64
	speeds  []float64
	left    []float64
	right   []float64

	width   float64
	spacing float64

	tension   float64
	dampening float64
	spread    float64

	clock float64
}

func NewField(columns int, width, level float64) (*Field, error) {
	if columns < 2 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewColumns, columns)
	}
	if !(width > 0) {
		return nil, fmt.Errorf("%w: width %v", ErrInvalidDimension, width)
	}
	return &Field{
		Level:     level,
		heights:   make([]float64, columns),
		speeds:    make([]float64, columns),
		left:      make([]float64, columns),
		right:     make([]float64, columns),
		width:     width,
		spacing:   width / float64(columns-1),
		tension:   DefaultTension,
		dampening: DefaultDampening,
		spread:    DefaultSpread,
	}, nil
}

func (f *Field) Tension() float64   { return f.tension }
func (f *Field) Dampening() float64 { return f.dampening }
func (f *Field) Spread() float64    { return f.spread }

func (f *Field) SetTension(v float64) {
	f.tension = clampKnob(v, f.tension, MinTension, MaxTension)
}

func (f *Field) SetDampening(v float64) {
	f.dampening = clampKnob(v, f.dampening, MinDampening, MaxDampening)
}

func (f *Field) SetSpread(v float64) {
	f.spread = clampKnob(v, f.spread, MinSpread, MaxSpread)
}

// clampKnob keeps prev when v is NaN.
func clampKnob(v, prev, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return prev
	}
	return dynamo.Clamp(v, lo, hi)
}

// Knob reads a coefficient by name.
func (f *Field) Knob(k Knob) float64 {
	switch k {
	case Tension:
		return f.tension
	case Dampening:
		return f.dampening
	case Spread:
		return f.spread
	}
	return 0
}

// Tune multiplies a coefficient by factor and clamps the result.
func (f *Field) Tune(k Knob, factor float64) {
	switch k {
	case Tension:
		f.SetTension(f.tension * factor)
	case Dampening:
		f.SetDampening(f.dampening * factor)
	case Spread:
		f.SetSpread(f.spread * factor)
	}
}

// ResetKnobs restores the default coefficients. Column state is kept.
func (f *Field) ResetKnobs() {
	f.tension, f.dampening, f.spread = DefaultTension, DefaultDampening, DefaultSpread
}

// Flatten zeroes every column.
func (f *Field) Flatten() {
	clear(f.heights)
	clear(f.speeds)
}

// Step advances the surface one frame. The update is per frame; dt only
// advances the field clock.
func (f *Field) Step(dt float64) error {
	f.clock += dt
	n := len(f.heights)

	for i := range n {
		f.speeds[i] += -f.tension * f.heights[i]
		f.speeds[i] *= 1 - f.dampening
		f.heights[i] += f.speeds[i]
	}

	clear(f.left)
	clear(f.right)
	for i := 1; i < n; i++ {
		d := f.spread * (f.heights[i-1] - f.heights[i])
		f.left[i] += d
		f.left[i-1] -= d
	}
	for i := n - 2; i >= 0; i-- {
		d := f.spread * (f.heights[i+1] - f.heights[i])
		f.right[i] += d
		f.right[i+1] -= d
	}
	for i := range n {
		f.speeds[i] += f.left[i] + f.right[i]
	}
	return nil
}

// Column returns the index of the column nearest x, clamped to the field.
func (f *Field) Column(x float64) int {
	x = max(0, min(f.width, x))
	i := int(math.Round(x / f.spacing))
	return max(0, min(len(f.heights)-1, i))
}

// ColumnX is the horizontal position of column i.
func (f *Field) ColumnX(i int) float64 { return float64(i) * f.spacing }

// Splash adds speed to the velocity of the column nearest x. Non-finite
// positions and speeds are ignored.
func (f *Field) Splash(x, speed float64) {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	f.speeds[f.Column(x)] += speed
}

// HeightAt interpolates the height deviation at x. It is zero outside the field.
func (f *Field) HeightAt(x float64) float64 {
	if !(x >= 0 && x <= f.width) {
		return 0
	}
	pos := x / f.spacing
	i := int(pos)
	if i >= len(f.heights)-1 {
		return f.heights[len(f.heights)-1]
	}
	t := pos - float64(i)
	return f.heights[i]*(1-t) + f.heights[i+1]*t
}

// SurfaceAt is the absolute surface position at x.
func (f *Field) SurfaceAt(x float64) float64 { return f.Level + f.HeightAt(x) }

func (f *Field) Columns() int   { return len(f.heights) }
func (f *Field) Width() float64 { return f.width }
func (f *Field) Time() float64  { return f.clock }

// Heights returns a copy of the column deviations.
func (f *Field) Heights() []float64 {
	out := make([]float64, len(f.heights))
	copy(out, f.heights)
	return out
}

// Speeds returns a copy of the column velocities.
func (f *Field) Speeds() []float64 {
	out := make([]float64, len(f.speeds))
	copy(out, f.speeds)
	return out
}

func (f *Field) State() dynamo.State { return dynamo.State(f.Heights()) }

// Energy sums the kinetic and tension energy of every column.
func (f *Field) Energy() float64 {
	e := 0.0
	for i, h := range f.heights {
		v := f.speeds[i]
		e += 0.5*v*v + 0.5*f.tension*h*h
	}
	return e
}
