package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27.0

// HzToMel converts a frequency to the Slaney mel scale
func HzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSp
}

// MelToHz converts a Slaney mel value back to Hz
func MelToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return melFSp * mel
}

// MelFilterbank builds an nMels x (nFFT/2+1) matrix of triangular filters
// spaced evenly on the mel scale between fmin and fmax. Each filter is
// area normalised (Slaney style) so that bands carry comparable energy.
func MelFilterbank(sampleRate, nFFT, nMels int, fmin, fmax float64) (*mat.Dense, error) {
	if sampleRate <= 0 || nFFT <= 0 || nMels <= 0 {
		return nil, fmt.Errorf("invalid mel filterbank parameters: sr=%d nfft=%d nmels=%d", sampleRate, nFFT, nMels)
	}
	if fmax <= 0 {
		fmax = float64(sampleRate) / 2
	}
	if fmin < 0 || fmin >= fmax {
		return nil, fmt.Errorf("invalid mel frequency range %.1f-%.1f Hz", fmin, fmax)
	}

	numBins := nFFT/2 + 1
	fftFreqs := make([]float64, numBins)
	floats.Span(fftFreqs, 0, float64(sampleRate)/2)

	// nMels+2 edge frequencies, evenly spaced in mel
	melPoints := make([]float64, nMels+2)
	floats.Span(melPoints, HzToMel(fmin), HzToMel(fmax))
	edges := make([]float64, len(melPoints))
	for i, m := range melPoints {
		edges[i] = MelToHz(m)
	}

	weights := mat.NewDense(nMels, numBins, nil)
	for m := 0; m < nMels; m++ {
		lowerWidth := edges[m+1] - edges[m]
		upperWidth := edges[m+2] - edges[m+1]
		norm := 2.0 / (edges[m+2] - edges[m])

		for b, f := range fftFreqs {
			lower := (f - edges[m]) / lowerWidth
			upper := (edges[m+2] - f) / upperWidth
			w := math.Max(0, math.Min(lower, upper))
			weights.Set(m, b, w*norm)
		}
	}

	return weights, nil
}

// PowerToDB converts a power spectrogram to decibels in place.
// Values are floored at amin before the log, then clipped to topDB below the
// peak. A topDB of 0 or less disables clipping.
func PowerToDB(s *mat.Dense, amin, topDB float64) {
	s.Apply(func(_, _ int, v float64) float64 {
		return 10 * math.Log10(math.Max(amin, v))
	}, s)

	if topDB <= 0 {
		return
	}

	floor := mat.Max(s) - topDB
	s.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, floor)
	}, s)
}
