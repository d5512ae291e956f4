package dsp

import (
	"fmt"
	"math"

	"github.com/argusdusty/gofft"
	"gonum.org/v1/gonum/mat"
)

// HannWindow returns a periodic Hann window of length n, the form used for
// spectral analysis (the symmetric form's last sample is dropped).
func HannWindow(n int) []float64 {
	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return window
}

// NumFrames returns the STFT frame count for a centred analysis of n samples
func NumFrames(n, hop int) int {
	return 1 + n/hop
}

// STFTPower computes the power spectrogram |X|^2 of samples.
//
// Frames are centred: the signal is zero padded by nFFT/2 on both sides so
// frame t is centred on sample t*hop. The result has nFFT/2+1 rows (frequency
// bins from DC to Nyquist) and one column per frame. nFFT must be a power of 2.
func STFTPower(samples []float64, nFFT, hop int) (*mat.Dense, error) {
	if nFFT <= 0 || nFFT&(nFFT-1) != 0 {
		return nil, fmt.Errorf("FFT size %d is not a power of 2", nFFT)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("invalid hop length %d", hop)
	}
	if len(samples) == 0 {
		return nil, ErrEmptySignal
	}

	pad := nFFT / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	window := HannWindow(nFFT)
	numBins := nFFT/2 + 1
	numFrames := NumFrames(len(samples), hop)

	power := mat.NewDense(numBins, numFrames, nil)
	buf := make([]complex128, nFFT)

	for t := 0; t < numFrames; t++ {
		start := t * hop
		for i := 0; i < nFFT; i++ {
			buf[i] = complex(padded[start+i]*window[i], 0)
		}

		if err := gofft.FFT(buf); err != nil {
			return nil, fmt.Errorf("FFT computation failed: %w", err)
		}

		for b := 0; b < numBins; b++ {
			re, im := real(buf[b]), imag(buf[b])
			power.Set(b, t, re*re+im*im)
		}
	}

	return power, nil
}
