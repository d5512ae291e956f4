package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE format tag for integer PCM
const wavFormatPCM = 1

// WriteWAV writes a mono waveform as integer PCM WAV.
// Samples outside [-1.0, 1.0] are clipped.
func WriteWAV(filename string, wave *Waveform, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported bit depth %d (must be 16 or 24)", bitDepth)
	}
	if wave.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", wave.SampleRate)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, wave.SampleRate, bitDepth, 1, wavFormatPCM)

	maxVal := fullScale(bitDepth) - 1
	data := make([]int, len(wave.Samples))
	for i, s := range wave.Samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * maxVal))
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: wave.SampleRate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise WAV: %w", err)
	}

	return f.Close()
}

// Sine generates a sine tone
func Sine(frequency, seconds float64, sampleRate int, amplitude float64) *Waveform {
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return &Waveform{Samples: samples, SampleRate: sampleRate}
}

// Silence generates an all-zero waveform
func Silence(seconds float64, sampleRate int) *Waveform {
	return &Waveform{Samples: make([]float64, int(seconds*float64(sampleRate))), SampleRate: sampleRate}
}
