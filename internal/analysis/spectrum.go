package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Spectrum returns the magnitude of the first n/2 frequency bins of series
// with its mean removed, so a settled offset does not swamp bin 0.
func Spectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	mean := stat.Mean(series, nil)
	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantFrequency is the frequency, in cycles per unit of dt, of the
// strongest non-zero bin. It is 0 for a flat or too short series.
func DominantFrequency(series []float64, dt float64) float64 {
	ps := Spectrum(series)
	best, bestMag := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestMag {
			best, bestMag = i, ps[i]
		}
	}
	if best == 0 || dt <= 0 {
		return 0
	}
	return float64(best) / (float64(len(series)) * dt)
}
