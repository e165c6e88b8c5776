package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/springlab/internal/dynamo"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	States   []dynamo.State     `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a whole run as one indented JSON document.
func ExportJSON(w io.Writer, scenario string, dt float64, result *dynamo.Result) error {
	data := ExportData{
		Scenario: scenario,
		Dt:       dt,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		States:   result.States,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
