package experiment

import (
	"github.com/charmbracelet/log"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Progress logs a status line every Every frames of a run.
type Progress struct {
	Every  int
	Logger *log.Logger
	Source dynamo.EnergyReporter

	frames int
}

func NewProgress(every int, logger *log.Logger, st dynamo.Stepper) *Progress {
	p := &Progress{Every: every, Logger: logger}
	if er, ok := st.(dynamo.EnergyReporter); ok {
		p.Source = er
	}
	return p
}

func (p *Progress) OnStep(x dynamo.State, t float64) {
	p.frames++
	if p.Every <= 0 || p.frames%p.Every != 0 {
		return
	}
	kv := []any{"frame", p.frames, "t", t, "max", x.MaxAbs()}
	if p.Source != nil {
		kv = append(kv, "energy", p.Source.Energy())
	}
	p.Logger.Info("progress", kv...)
}

// Frames counts the steps observed so far.
func (p *Progress) Frames() int { return p.frames }
