package dsp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrEmptySignal is returned when there are no samples to analyse
var ErrEmptySignal = errors.New("empty signal")

// DCTMatrix returns the first n rows of the orthonormal type-II DCT of size size.
// Multiplying it with an (size x frames) matrix transforms each column.
func DCTMatrix(n, size int) *mat.Dense {
	d := mat.NewDense(n, size, nil)
	for k := 0; k < n; k++ {
		scale := math.Sqrt(2.0 / float64(size))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(size))
		}
		for i := 0; i < size; i++ {
			d.Set(k, i, scale*math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(size))))
		}
	}
	return d
}

// MFCCParams controls the spectral front end of MFCC computation
type MFCCParams struct {
	FFTSize   int
	HopLength int
	NumMels   int
	Amin      float64
	TopDB     float64
}

// MFCC computes n mel-frequency cepstral coefficients per frame.
//
// Pipeline: power STFT -> mel filterbank (0 Hz to Nyquist) -> dB -> DCT-II.
// The result has n rows and one column per STFT frame.
func MFCC(samples []float64, sampleRate, n int, p MFCCParams) (*mat.Dense, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if n <= 0 || n > p.NumMels {
		return nil, fmt.Errorf("coefficient count %d outside 1-%d", n, p.NumMels)
	}

	power, err := STFTPower(samples, p.FFTSize, p.HopLength)
	if err != nil {
		return nil, err
	}

	filters, err := MelFilterbank(sampleRate, p.FFTSize, p.NumMels, 0, float64(sampleRate)/2)
	if err != nil {
		return nil, err
	}

	var mel mat.Dense
	mel.Mul(filters, power)
	PowerToDB(&mel, p.Amin, p.TopDB)

	var mfcc mat.Dense
	mfcc.Mul(DCTMatrix(n, p.NumMels), &mel)

	return &mfcc, nil
}
