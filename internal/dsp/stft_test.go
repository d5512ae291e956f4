package dsp

import (
	"math"
	"testing"
)

// TestHannWindow_Properties verifies the periodic Hann window starts at zero,
// peaks at the centre and is symmetric around it.
func TestHannWindow_Properties(t *testing.T) {
	const n = 8
	w := HannWindow(n)

	if w[0] != 0 {
		t.Errorf("w[0] = %.6f, want 0", w[0])
	}
	if math.Abs(w[n/2]-1) > 1e-12 {
		t.Errorf("w[%d] = %.6f, want 1", n/2, w[n/2])
	}
	for i := 1; i < n/2; i++ {
		if math.Abs(w[i]-w[n-i]) > 1e-12 {
			t.Errorf("w[%d] = %.6f, w[%d] = %.6f, want equal", i, w[i], n-i, w[n-i])
		}
	}
}

func TestNumFrames(t *testing.T) {
	testCases := []struct {
		samples, hop, want int
	}{
		{samples: 1, hop: 512, want: 1},
		{samples: 511, hop: 512, want: 1},
		{samples: 512, hop: 512, want: 2},
		{samples: 132300, hop: 512, want: 259}, // 3s at 44.1kHz
	}

	for _, tc := range testCases {
		if got := NumFrames(tc.samples, tc.hop); got != tc.want {
			t.Errorf("NumFrames(%d, %d) = %d, want %d", tc.samples, tc.hop, got, tc.want)
		}
	}
}

// TestSTFTPower_KnownSineWave verifies that a 440 Hz tone concentrates its
// energy in the expected frequency bin.
//
// With 2048 FFT at 44.1 kHz the bin width is ~21.5 Hz, so 440 Hz lands
// near bin 20.
func TestSTFTPower_KnownSineWave(t *testing.T) {
	const (
		sampleRate = 44100
		frequency  = 440.0
		fftSize    = 2048
		hop        = 512
	)

	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * frequency * float64(i) / sampleRate)
	}

	power, err := STFTPower(samples, fftSize, hop)
	if err != nil {
		t.Fatalf("STFTPower failed: %v", err)
	}

	bins, frames := power.Dims()
	if bins != fftSize/2+1 {
		t.Errorf("Expected %d bins, got %d", fftSize/2+1, bins)
	}
	if frames != NumFrames(len(samples), hop) {
		t.Errorf("Expected %d frames, got %d", NumFrames(len(samples), hop), frames)
	}

	// Inspect a frame well inside the signal
	frame := frames / 2
	peakBin := 0
	for b := 0; b < bins; b++ {
		if power.At(b, frame) > power.At(peakBin, frame) {
			peakBin = b
		}
	}

	expected := int(math.Round(frequency * fftSize / sampleRate))
	if abs(peakBin-expected) > 1 {
		t.Errorf("Peak bin %d, expected about %d", peakBin, expected)
	}

	t.Logf("440 Hz peak at bin %d (%.1f Hz)", peakBin, float64(peakBin)*sampleRate/fftSize)
}

func TestSTFTPower_Silence(t *testing.T) {
	power, err := STFTPower(make([]float64, 4096), 2048, 512)
	if err != nil {
		t.Fatalf("STFTPower failed: %v", err)
	}

	bins, frames := power.Dims()
	for b := 0; b < bins; b++ {
		for f := 0; f < frames; f++ {
			if power.At(b, f) != 0 {
				t.Fatalf("power[%d][%d] = %g, want 0", b, f, power.At(b, f))
			}
		}
	}
}

func TestSTFTPower_InvalidInput(t *testing.T) {
	if _, err := STFTPower([]float64{1, 2, 3}, 1000, 256); err == nil {
		t.Error("Expected error for non power-of-two FFT size")
	}
	if _, err := STFTPower([]float64{1, 2, 3}, 1024, 0); err == nil {
		t.Error("Expected error for zero hop")
	}
	if _, err := STFTPower(nil, 1024, 256); err != ErrEmptySignal {
		t.Errorf("Expected ErrEmptySignal, got %v", err)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
