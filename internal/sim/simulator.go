package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
)

type Simulator struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run steps st cfg.Frames times and records every frame's state.
func (s *Simulator) Run(ctx context.Context, st dynamo.Stepper, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		States:  make([]dynamo.State, 0, cfg.Frames+1),
		Times:   make([]float64, 0, cfg.Frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := st.State()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		if err := st.Step(cfg.Dt); err != nil {
			result.Errors = append(result.Errors, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err})
		}

		x = st.State()
		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimulationError{
				Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState,
			})
			break
		}

		t += cfg.Dt
		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps st until the callback returns false or cfg.Frames is
// reached. Frames <= 0 runs until the callback stops it.
func (s *Simulator) RunWithCallback(ctx context.Context, st dynamo.Stepper, cfg dynamo.Config, callback func(dynamo.State, float64) bool) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}

	t := 0.0
	for i := 0; cfg.Frames <= 0 || i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x := st.State()
		if !callback(x, t) {
			return nil
		}

		if err := st.Step(cfg.Dt); err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt

		if cfg.ValidateState && !st.State().IsValid() {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
	}

	return nil
}

func validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", dynamo.ErrInvalidConfig, cfg.Frames)
	}
	return nil
}
