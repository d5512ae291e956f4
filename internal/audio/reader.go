package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/linuxmatters/jivevec/internal/config"
)

// ReadAll drains a decoder into a single mono waveform
func ReadAll(dec Decoder) (*Waveform, error) {
	var samples []float64
	for {
		chunk, err := dec.ReadChunk(config.ReadChunkSize)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		samples = append(samples, chunk...)
	}

	return &Waveform{Samples: samples, SampleRate: dec.SampleRate()}, nil
}

// Load decodes a WAV, MP3 or FLAC file to mono and resamples it to targetRate.
// A targetRate of 0 keeps the file's native rate.
func Load(filename string, targetRate int) (*Waveform, error) {
	dec, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	wave, err := ReadAll(dec)
	if err != nil {
		return nil, err
	}
	if len(wave.Samples) == 0 {
		return nil, ErrNoAudio
	}

	if targetRate <= 0 || targetRate == wave.SampleRate {
		return wave, nil
	}
	return Resample(wave, targetRate)
}

// Resample converts a mono waveform to targetRate.
// The output length is fixed to ceil(n * targetRate / sourceRate) so that
// frame counts are deterministic regardless of resampler latency.
func Resample(wave *Waveform, targetRate int) (*Waveform, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("invalid target sample rate %d", targetRate)
	}
	if wave.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid source sample rate %d", wave.SampleRate)
	}
	if wave.SampleRate == targetRate {
		return &Waveform{Samples: append([]float64(nil), wave.Samples...), SampleRate: targetRate}, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(wave.SampleRate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := r.Process(wave.Samples)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush error: %w", err)
	}
	out = append(out, tail...)

	ratio := float64(targetRate) / float64(wave.SampleRate)
	want := int(math.Ceil(float64(len(wave.Samples)) * ratio))

	return &Waveform{Samples: fixLength(out, want), SampleRate: targetRate}, nil
}

// fixLength trims or zero-pads samples to exactly n
func fixLength(samples []float64, n int) []float64 {
	if len(samples) >= n {
		return samples[:n]
	}
	padded := make([]float64, n)
	copy(padded, samples)
	return padded
}

// FileDecoder loads audio files from disk for feature extraction
type FileDecoder struct{}

// Decode loads filename as mono audio at targetRate
func (FileDecoder) Decode(filename string, targetRate int) (*Waveform, error) {
	return Load(filename, targetRate)
}
