package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/springlab/internal/dynamo"
)

type fixedEnergy struct{ e float64 }

func (f *fixedEnergy) Energy() float64 { return f.e }

func TestKineticEnergyMean(t *testing.T) {
	src := &fixedEnergy{}
	m := NewKineticEnergy(src)

	for _, e := range []float64{1, 2, 3, 6} {
		src.e = e
		m.Observe(nil, 0)
	}
	if m.Value() != 3 {
		t.Errorf("expected mean energy 3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDecay(t *testing.T) {
	src := &fixedEnergy{}
	m := NewEnergyDecay(src)

	for _, e := range []float64{0, 8, 4, 2} {
		src.e = e
		m.Observe(nil, 0)
	}
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected decay 0.25, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	m.Observe(dynamo.State{1, -9}, 0)
	m.Observe(dynamo.State{1, 11}, 0)
	m.Observe(dynamo.State{math.NaN()}, 0)
	m.Observe(dynamo.State{0}, 0)

	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestPeakAmplitude(t *testing.T) {
	m := NewPeakAmplitude()
	m.Observe(dynamo.State{1, -4}, 0)
	m.Observe(dynamo.State{2, 3}, 0)
	if m.Value() != 4 {
		t.Errorf("expected peak 4, got %f", m.Value())
	}
}

func TestSeparation(t *testing.T) {
	m := NewSeparation(0, 1)
	m.Observe(dynamo.State{0, 0, 3, 4}, 0)
	m.Observe(dynamo.State{0, 0, 6, 8}, 0)
	m.Observe(dynamo.State{0, 0}, 0)

	if m.Value() != 7.5 {
		t.Errorf("expected mean separation 7.5, got %f", m.Value())
	}
	if m.Tail(1) != 10 {
		t.Errorf("expected tail 10, got %f", m.Tail(1))
	}
	if m.StdDev() <= 0 {
		t.Error("expected a positive spread")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
