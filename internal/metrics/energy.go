package metrics

import (
	"github.com/san-kum/springlab/internal/dynamo"
)

// KineticEnergy averages the source's energy over every observed frame.
type KineticEnergy struct {
	name    string
	src     dynamo.EnergyReporter
	samples int
	total   float64
}

func NewKineticEnergy(src dynamo.EnergyReporter) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		src:  src,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(_ dynamo.State, _ float64) {
	e.total += e.src.Energy()
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDecay is the ratio of the last observed energy to the first non-zero
// one. Below 1 the system is settling.
type EnergyDecay struct {
	name    string
	src     dynamo.EnergyReporter
	initial float64
	current float64
}

func NewEnergyDecay(src dynamo.EnergyReporter) *EnergyDecay {
	return &EnergyDecay{
		name: "energy_decay",
		src:  src,
	}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(_ dynamo.State, _ float64) {
	energy := e.src.Energy()
	if e.initial == 0 {
		e.initial = energy
	}
	e.current = energy
}

func (e *EnergyDecay) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return e.current / e.initial
}

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.current = 0
}
