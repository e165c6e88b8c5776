package config

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/geometry"
	"github.com/san-kum/springlab/internal/integrators"
	"github.com/san-kum/springlab/internal/lab"
	"github.com/san-kum/springlab/internal/water"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultFrames   = 600
	DefaultScenario = "pendulums"
)

type Config struct {
	Scenario string         `yaml:"scenario"`
	Dt       float64        `yaml:"dt"`
	Frames   int            `yaml:"frames"`
	Seed     int64          `yaml:"seed"`
	Lab      LabConfig      `yaml:"lab"`
	Pendulum PendulumConfig `yaml:"pendulum"`
	Mesh     MeshConfig     `yaml:"mesh"`
	Circle   CircleConfig   `yaml:"circle"`
	Water    WaterConfig    `yaml:"water"`
}

type LabConfig struct {
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
	StringMode bool    `yaml:"string_mode"`
	PickRadius float64 `yaml:"pick_radius"`
	Retention  float64 `yaml:"retention"`
	Decay      float64 `yaml:"decay"`
}

// PendulumConfig lays out Count pendulums side by side, Gap apart.
type PendulumConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Drop       float64 `yaml:"drop"`
	Rest       float64 `yaml:"rest"`
	AnchorMass float64 `yaml:"anchor_mass"`
	BobMass    float64 `yaml:"bob_mass"`
	Count      int     `yaml:"count"`
	Gap        float64 `yaml:"gap"`
}

type MeshConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
	Mass     float64 `yaml:"mass"`
	Rest     float64 `yaml:"rest"`
	DiagRest float64 `yaml:"diag_rest"`
}

type CircleConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Radius     float64 `yaml:"radius"`
	Count      int     `yaml:"count"`
	CenterMass float64 `yaml:"center_mass"`
	Mass       float64 `yaml:"mass"`
	SpokeRest  float64 `yaml:"spoke_rest"`
	RimRest    float64 `yaml:"rim_rest"`
}

type WaterConfig struct {
	Columns     int     `yaml:"columns"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Level       float64 `yaml:"level"`
	Tension     float64 `yaml:"tension"`
	Dampening   float64 `yaml:"dampening"`
	Spread      float64 `yaml:"spread"`
	SplashScale float64 `yaml:"splash_scale"`
	Gravity     float64 `yaml:"gravity"`
	Drag        float64 `yaml:"drag"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Dt:       DefaultDt,
		Frames:   DefaultFrames,
		Lab: LabConfig{
			Stiffness:  lab.DefaultStiffness,
			Damping:    lab.DefaultSpringDamping,
			PickRadius: lab.DefaultPickRadius,
			Retention:  integrators.DefaultRetention,
			Decay:      integrators.DefaultDecay,
		},
		Pendulum: PendulumConfig{
			X: 200, Y: 180, Drop: 100, Rest: 50,
			AnchorMass: 100, BobMass: 10, Count: 2, Gap: 200,
		},
		Mesh: MeshConfig{
			X: 200, Y: 20, Width: 5, Height: 5, DX: 60, DY: 60,
			Mass: 1, Rest: 50, DiagRest: 50,
		},
		Circle: CircleConfig{
			X: 700, Y: 300, Radius: 100, Count: 6,
			CenterMass: 1, Mass: 1, SpokeRest: 80, RimRest: 60,
		},
		Water: WaterConfig{
			Columns:     201,
			Width:       800,
			Height:      480,
			Level:       240,
			Tension:     water.DefaultTension,
			Dampening:   water.DefaultDampening,
			Spread:      water.DefaultSpread,
			SplashScale: water.DefaultSplashScale,
			Gravity:     water.DefaultGravity.Y,
			Drag:        water.DefaultDrag,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone copies c. Presets are shared and must not be mutated.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports every field that would make a run meaningless.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...)))
		}
	}
	check(c.Dt > 0, "dt must be positive, got %v", c.Dt)
	check(c.Frames > 0, "frames must be positive, got %d", c.Frames)
	check(c.Lab.Damping >= 0, "lab.damping must not be negative, got %v", c.Lab.Damping)
	check(c.Lab.Retention > 0 && c.Lab.Retention <= 1, "lab.retention must be in (0, 1], got %v", c.Lab.Retention)
	check(c.Lab.Decay >= 0 && c.Lab.Decay <= 1, "lab.decay must be in [0, 1], got %v", c.Lab.Decay)
	check(c.Pendulum.Count >= 0, "pendulum.count must not be negative, got %d", c.Pendulum.Count)
	check(c.Mesh.Width >= 0 && c.Mesh.Height >= 0, "mesh size must not be negative, got %dx%d", c.Mesh.Width, c.Mesh.Height)
	check(c.Circle.Count >= 0, "circle.count must not be negative, got %d", c.Circle.Count)
	check(c.Water.Columns >= 2, "water.columns must be at least 2, got %d", c.Water.Columns)
	check(c.Water.Width > 0 && c.Water.Height > 0, "water size must be positive, got %vx%v", c.Water.Width, c.Water.Height)
	return errors.Join(errs...)
}

func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{Dt: c.Dt, Frames: c.Frames, Seed: c.Seed, ValidateState: true}
}

func (c *Config) LabOptions() lab.Options {
	opts := lab.DefaultOptions()
	opts.Stiffness = c.Lab.Stiffness
	opts.Damping = c.Lab.Damping
	opts.StringMode = c.Lab.StringMode
	if c.Lab.PickRadius > 0 {
		opts.PickRadius = c.Lab.PickRadius
	}
	return opts
}

func (c *Config) Integrator() *integrators.DampedEuler {
	return &integrators.DampedEuler{Retention: c.Lab.Retention, Decay: c.Lab.Decay}
}

func (c *Config) SceneOptions() water.SceneOptions {
	opts := water.DefaultSceneOptions()
	opts.Columns = c.Water.Columns
	opts.Width = c.Water.Width
	opts.Height = c.Water.Height
	opts.Level = c.Water.Level
	opts.Tension = c.Water.Tension
	opts.Dampening = c.Water.Dampening
	opts.Spread = c.Water.Spread
	opts.SplashScale = c.Water.SplashScale
	opts.Gravity = r2.Vec{Y: c.Water.Gravity}
	opts.Drag = c.Water.Drag
	return opts
}

// Pendulums builds the configured row of pendulums with signed stiffness k.
func (c *Config) Pendulums(k float64) []geometry.Topology {
	p := c.Pendulum
	out := make([]geometry.Topology, 0, p.Count)
	for i := range p.Count {
		x := p.X + float64(i)*p.Gap
		out = append(out, geometry.Pendulum(
			r2.Vec{X: x, Y: p.Y}, p.AnchorMass,
			r2.Vec{X: x, Y: p.Y + p.Drop}, p.BobMass,
			p.Rest, k))
	}
	return out
}

func (c *Config) MeshTopology(k float64) geometry.Topology {
	m := c.Mesh
	return geometry.Mesh(r2.Vec{X: m.X, Y: m.Y}, m.Width, m.Height, m.DX, m.DY, m.Mass, m.Rest, m.DiagRest, k)
}

func (c *Config) CircleTopology(k float64) geometry.Topology {
	ci := c.Circle
	return geometry.Circle(r2.Vec{X: ci.X, Y: ci.Y}, ci.Radius, ci.Count, ci.CenterMass, ci.Mass, ci.SpokeRest, ci.RimRest, k)
}

// Scene returns the lab scene for a spring scenario, or nil for an unknown one.
func (c *Config) Scene(scenario string) lab.Scene {
	switch scenario {
	case "pendulums":
		return c.Pendulums
	case "mesh":
		return func(k float64) []geometry.Topology { return []geometry.Topology{c.MeshTopology(k)} }
	case "circle":
		return func(k float64) []geometry.Topology { return []geometry.Topology{c.CircleTopology(k)} }
	}
	return nil
}
