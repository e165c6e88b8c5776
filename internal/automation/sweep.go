package automation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/experiment"
	"github.com/san-kum/springlab/internal/sim"
)

// sweepParams maps a sweepable parameter to the config field it sets.
var sweepParams = map[string]func(*config.Config, float64){
	"stiffness":    func(c *config.Config, v float64) { c.Lab.Stiffness = v },
	"damping":      func(c *config.Config, v float64) { c.Lab.Damping = v },
	"retention":    func(c *config.Config, v float64) { c.Lab.Retention = v },
	"tension":      func(c *config.Config, v float64) { c.Water.Tension = v },
	"dampening":    func(c *config.Config, v float64) { c.Water.Dampening = v },
	"spread":       func(c *config.Config, v float64) { c.Water.Spread = v },
	"splash_scale": func(c *config.Config, v float64) { c.Water.SplashScale = v },
}

// SweepParams lists the parameters RunSweep accepts.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs one scenario at evenly spaced values of one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds one run of a sweep.
type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	Metrics    map[string]float64
	Stable     bool
}

func (sw *ParameterSweep) values() []float64 {
	if sw.NumSteps == 1 {
		return []float64{sw.ParamMin}
	}
	step := (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	out := make([]float64, sw.NumSteps)
	for i := range out {
		out[i] = sw.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep executes every point of the sweep concurrently, one independent
// stepper per point.
func RunSweep(ctx context.Context, sw *ParameterSweep, registry *experiment.Registry, logger *log.Logger) ([]SweepResult, error) {
	set, ok := sweepParams[sw.ParamName]
	if !ok {
		return nil, fmt.Errorf("parameter %q is not sweepable", sw.ParamName)
	}
	if sw.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	if err := sw.Base.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	values := sw.values()
	factory := func(idx int) (dynamo.Stepper, []dynamo.Metric, error) {
		cfg := sw.Base.Clone()
		set(cfg, values[idx])
		st, err := registry.Build(cfg.Scenario, cfg)
		if err != nil {
			return nil, nil, err
		}
		return st, registry.DefaultMetrics(cfg.Scenario, st), nil
	}

	logger.Info("sweeping", "scenario", sw.Base.Scenario, "param", sw.ParamName, "steps", sw.NumSteps)
	runs, err := sim.NewEnsemble(factory, len(values)).Run(ctx, sw.Base.RunConfig())
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			ParamValue: values[i],
			FinalState: r.Final(),
			Metrics:    r.Metrics,
			Stable:     len(r.Errors) == 0 && r.Metrics["stability"] == 1,
		}
		logger.Debug("sweep point", sw.ParamName, values[i], "stable", results[i].Stable)
	}
	return results, nil
}

// Best returns the result minimising metric among stable runs.
func Best(results []SweepResult, metric string) (SweepResult, bool) {
	best, found := SweepResult{}, false
	bestVal := math.Inf(1)
	for _, r := range results {
		v, ok := r.Metrics[metric]
		if !ok || !r.Stable || math.IsNaN(v) {
			continue
		}
		if v < bestVal {
			best, bestVal, found = r, v, true
		}
	}
	return best, found
}

// SweepStats counts stable and unstable runs.
func SweepStats(results []SweepResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
