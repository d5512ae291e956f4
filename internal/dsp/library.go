package dsp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/linuxmatters/jivevec/internal/config"
)

// Library computes MFCC and delta features with fixed analysis settings.
// It holds no mutable state and is safe for concurrent use.
type Library struct {
	Params     MFCCParams
	DeltaWidth int
}

// NewLibrary returns a Library using the package-wide analysis settings
func NewLibrary() *Library {
	return &Library{
		Params: MFCCParams{
			FFTSize:   config.FFTSize,
			HopLength: config.HopLength,
			NumMels:   config.NumMelBands,
			Amin:      config.AminPower,
			TopDB:     config.TopDB,
		},
		DeltaWidth: config.DeltaWidth,
	}
}

// MFCC computes n coefficients per frame, see MFCC
func (l *Library) MFCC(samples []float64, sampleRate, n int) (*mat.Dense, error) {
	return MFCC(samples, sampleRate, n, l.Params)
}

// Delta computes the order-th derivative of features over time, see Delta
func (l *Library) Delta(features *mat.Dense, order int) (*mat.Dense, error) {
	return Delta(features, l.DeltaWidth, order)
}
