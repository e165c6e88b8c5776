package water

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/dynamo"
)

const DefaultSplashScale = 0.5

type SceneOptions struct {
	Columns int
	Width   float64
	Height  float64
	Level   float64

	// Knob values below or equal to zero keep the field defaults.
	Tension   float64
	Dampening float64
	Spread    float64

	// SplashScale multiplies vy² when a body enters the water.
	SplashScale float64
	Gravity     r2.Vec
	Drag        float64
	ThrowScale  float64
	// Margin is how far past the bottom edge a body falls before it is dropped.
	Margin float64
}

func DefaultSceneOptions() SceneOptions {
	return SceneOptions{
		Columns:     201,
		Width:       800,
		Height:      480,
		Level:       240,
		Tension:     DefaultTension,
		Dampening:   DefaultDampening,
		Spread:      DefaultSpread,
		SplashScale: DefaultSplashScale,
		Gravity:     DefaultGravity,
		Drag:        DefaultDrag,
		ThrowScale:  DefaultThrowScale,
		Margin:      16,
	}
}

// Scene couples a field to the bodies falling into it.
type Scene struct {
	opts   SceneOptions
	field  *Field
	bodies []*Body
	splash int
}

func NewScene(opts SceneOptions) (*Scene, error) {
	if !(opts.Height > 0) {
		return nil, fmt.Errorf("%w: height %v", ErrInvalidDimension, opts.Height)
	}
	f, err := NewField(opts.Columns, opts.Width, opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Tension > 0 {
		f.SetTension(opts.Tension)
	}
	if opts.Dampening > 0 {
		f.SetDampening(opts.Dampening)
	}
	if opts.Spread > 0 {
		f.SetSpread(opts.Spread)
	}
	return &Scene{opts: opts, field: f}, nil
}

func (s *Scene) Field() *Field { return s.field }

// Drop releases a body at pos with an initial velocity.
func (s *Scene) Drop(pos, vel r2.Vec) {
	if !dynamo.Finite(pos) || !dynamo.Finite(vel) {
		return
	}
	s.bodies = append(s.bodies, &Body{Pos: pos, Vel: vel})
}

// Throw drops a body at to, launched with the pointer motion from prev.
func (s *Scene) Throw(prev, to r2.Vec) {
	s.Drop(to, r2.Scale(s.opts.ThrowScale, r2.Sub(to, prev)))
}

// Step advances the surface, then each body. A body that is about to cross
// the local surface on its way down splashes first.
func (s *Scene) Step(dt float64) error {
	if err := s.field.Step(dt); err != nil {
		return err
	}

	kept := s.bodies[:0]
	for _, b := range s.bodies {
		surface := s.field.SurfaceAt(b.Pos.X)
		if !b.Entered && b.Crosses(surface) {
			s.field.Splash(b.Pos.X, b.Vel.Y*b.Vel.Y*s.opts.SplashScale)
			b.Entered = true
			s.splash++
		}
		b.Update(s.field.SurfaceAt(b.Pos.X), s.opts.Gravity, s.opts.Drag)
		if b.Pos.Y <= s.opts.Height+s.opts.Margin {
			kept = append(kept, b)
		}
	}
	clear(s.bodies[len(kept):])
	s.bodies = kept
	return nil
}

// Reset flattens the surface, restores the default knobs and drops every body.
func (s *Scene) Reset() {
	s.field.Flatten()
	s.field.ResetKnobs()
	s.bodies = nil
}

// Bodies returns copies of the live bodies.
func (s *Scene) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = *b
	}
	return out
}

// Splashes counts surface entries since the scene was built.
func (s *Scene) Splashes() int { return s.splash }

func (s *Scene) Options() SceneOptions { return s.opts }

func (s *Scene) State() dynamo.State { return s.field.State() }
func (s *Scene) Energy() float64     { return s.field.Energy() }
