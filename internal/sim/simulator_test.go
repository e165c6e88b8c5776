package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springlab/internal/dynamo"
)

// decay halves its value every frame.
type decay struct{ x float64 }

func (d *decay) Step(float64) error  { d.x *= 0.5; return nil }
func (d *decay) State() dynamo.State { return dynamo.State{d.x} }

// poison turns non-finite after a few frames.
type poison struct{ n int }

func (p *poison) Step(float64) error { p.n++; return nil }
func (p *poison) State() dynamo.State {
	if p.n >= 3 {
		return dynamo.State{math.NaN()}
	}
	return dynamo.State{float64(p.n)}
}

type failing struct{}

var errBoom = errors.New("boom")

func (failing) Step(float64) error  { return errBoom }
func (failing) State() dynamo.State { return dynamo.State{0} }

func TestSimulatorRun(t *testing.T) {
	sim := New()
	cfg := dynamo.Config{Dt: 0.1, Frames: 10, ValidateState: true}

	result, err := sim.Run(context.Background(), &decay{x: 1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	if got, want := result.Final()[0], math.Pow(0.5, 10); got != want {
		t.Errorf("expected final state %v, got %v", want, got)
	}
	if math.Abs(result.Times[10]-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %v", result.Times[10])
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New()

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.Config{Dt: 0, Frames: 10}},
		{"negative dt", dynamo.Config{Dt: -0.1, Frames: 10}},
		{"NaN dt", dynamo.Config{Dt: math.NaN(), Frames: 10}},
		{"zero frames", dynamo.Config{Dt: 0.1, Frames: 0}},
		{"negative frames", dynamo.Config{Dt: 0.1, Frames: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), &decay{x: 1}, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	result, err := New().Run(context.Background(), &poison{}, dynamo.Config{Dt: 0.1, Frames: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 2 {
		t.Errorf("expected 2 steps before the state went bad, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected one ErrInvalidState, got %v", result.Errors)
	}
	if !result.Final().IsValid() {
		t.Error("invalid state leaked into the result")
	}
}

func TestSimulatorRecordsStepErrors(t *testing.T) {
	result, err := New().Run(context.Background(), failing{}, dynamo.Config{Dt: 0.1, Frames: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 step errors, got %d", len(result.Errors))
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[1], &simErr) || simErr.Step != 1 {
		t.Errorf("expected a SimulationError at step 1, got %v", result.Errors[1])
	}
	if !errors.Is(result.Errors[1], errBoom) {
		t.Error("expected step error to unwrap to the stepper error")
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Run(ctx, &decay{x: 1}, dynamo.Config{Dt: 0.1, Frames: 10})
	if !errors.Is(err, dynamo.ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected a cancellation error, got %v", err)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x dynamo.State, _ float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ n int }

func (o *countingObserver) OnStep(dynamo.State, float64) { o.n++ }

func TestSimulatorMetrics(t *testing.T) {
	sim := New()

	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), &decay{x: 1}, dynamo.Config{Dt: 0.1, Frames: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if obs.n != 10 {
		t.Errorf("expected 10 observer calls, got %d", obs.n)
	}
}

func TestRunWithCallback(t *testing.T) {
	frames := 0
	err := New().RunWithCallback(context.Background(), &decay{x: 1}, dynamo.Config{Dt: 0.1}, func(x dynamo.State, _ float64) bool {
		frames++
		return frames < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if frames != 5 {
		t.Errorf("expected the callback to stop the run after 5 frames, got %d", frames)
	}
}

func TestEnsembleRun(t *testing.T) {
	factory := func(idx int) (dynamo.Stepper, []dynamo.Metric, error) {
		return &decay{x: float64(idx + 1)}, []dynamo.Metric{&testMetric{}}, nil
	}

	results, err := NewEnsemble(factory, 4).Run(context.Background(), dynamo.Config{Dt: 0.1, Frames: 3})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if want := float64(i+1) / 8; r.Final()[0] != want {
			t.Errorf("run %d: expected final %v, got %v", i, want, r.Final()[0])
		}
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	factory := func(idx int) (dynamo.Stepper, []dynamo.Metric, error) {
		if idx == 2 {
			return nil, nil, errBoom
		}
		return &decay{x: 1}, nil, nil
	}
	if _, err := NewEnsemble(factory, 3).Run(context.Background(), dynamo.Config{Dt: 0.1, Frames: 3}); !errors.Is(err, errBoom) {
		t.Errorf("expected factory error, got %v", err)
	}
}
