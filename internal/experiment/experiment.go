package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
	stepper   dynamo.Stepper
	logger    *log.Logger
}

func New(cfg *config.Config, registry *Registry, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = log.Default()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// Setup builds the scenario named in the config and attaches its default metrics.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	st, err := e.registry.Build(e.cfg.Scenario, e.cfg)
	if err != nil {
		return err
	}
	e.stepper = st
	e.simulator = sim.New()
	for _, m := range e.registry.DefaultMetrics(e.cfg.Scenario, st) {
		e.simulator.AddMetric(m)
	}
	e.logger.Debug("experiment ready", "scenario", e.cfg.Scenario, "state_dim", len(st.State()))
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	e.logger.Info("running", "scenario", e.cfg.Scenario, "frames", e.cfg.Frames, "dt", e.cfg.Dt)
	result, err := e.simulator.Run(ctx, e.stepper, e.cfg.RunConfig())
	if err != nil {
		return result, err
	}
	for _, simErr := range result.Errors {
		e.logger.Warn("step failed", "err", simErr)
	}
	e.logger.Debug("run finished", "steps", result.StepsTaken)
	return result, nil
}

// Simulator is nil until Setup; callers attach extra observers to it.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Watch steps the scenario live, handing every frame to fn until it returns
// false, ctx is done, or the configured frame count is reached. Metrics are
// not collected.
func (e *Experiment) Watch(ctx context.Context, fn func(x dynamo.State, t float64) bool) error {
	if e.simulator == nil {
		return fmt.Errorf("experiment not setup")
	}
	e.logger.Info("watching", "scenario", e.cfg.Scenario, "frames", e.cfg.Frames)
	return e.simulator.RunWithCallback(ctx, e.stepper, e.cfg.RunConfig(), fn)
}

// Stepper returns the scenario being run.
func (e *Experiment) Stepper() dynamo.Stepper {
	return e.stepper
}
