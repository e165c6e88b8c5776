package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/lab"
	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/water"
)

// StabilityBound is the coordinate magnitude past which a frame counts as diverged.
const StabilityBound = 1e5

// Builder constructs a fresh stepper for one run of a scenario.
type Builder func(cfg *config.Config) (dynamo.Stepper, error)

type Registry struct {
	scenarios map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Builder)}

	for _, name := range []string{"pendulums", "mesh", "circle"} {
		r.scenarios[name] = springScenario(name)
	}
	r.scenarios["water"] = func(cfg *config.Config) (dynamo.Stepper, error) {
		return NewWaterScene(cfg)
	}

	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(name string, b Builder) { r.scenarios[name] = b }

func springScenario(name string) Builder {
	return func(cfg *config.Config) (dynamo.Stepper, error) {
		return NewLab(cfg, name)
	}
}

// NewLab builds an unpaused lab loaded with a spring scenario.
func NewLab(cfg *config.Config, scenario string) (*lab.Lab, error) {
	scene := cfg.Scene(scenario)
	if scene == nil {
		return nil, fmt.Errorf("unknown spring scenario: %s", scenario)
	}
	l, err := lab.New(cfg.LabOptions(), scene)
	if err != nil {
		return nil, err
	}
	l.Network().SetIntegrator(cfg.Integrator())
	return l, nil
}

// NewWaterScene builds a water scene with one rock dropped above the surface.
// The rock's horizontal position is drawn from cfg.Seed.
func NewWaterScene(cfg *config.Config) (*water.Scene, error) {
	s, err := water.NewScene(cfg.SceneOptions())
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	x := cfg.Water.Width * (0.25 + 0.5*rng.Float64())
	s.Drop(r2.Vec{X: x, Y: cfg.Water.Level - cfg.Water.Height/4}, r2.Vec{})
	return s, nil
}

func (r *Registry) Build(name string, cfg *config.Config) (dynamo.Stepper, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics worth recording for a scenario.
func (r *Registry) DefaultMetrics(scenario string, st dynamo.Stepper) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewStability(StabilityBound)}
	if er, ok := st.(dynamo.EnergyReporter); ok {
		ms = append(ms, metrics.NewKineticEnergy(er), metrics.NewEnergyDecay(er))
	}
	switch scenario {
	case "pendulums":
		ms = append(ms, metrics.NewSeparation(0, 1))
	case "water":
		ms = append(ms, metrics.NewPeakAmplitude())
	}
	return ms
}
