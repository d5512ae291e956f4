package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements Decoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	file        *os.File
	sampleRate  int
	numSamples  int64
	numChannels int

	// Mono samples decoded from the last frame but not yet returned
	pending []float64
}

// NewFLACDecoder creates a new FLAC decoder.
// Format details come from the STREAMINFO metadata block.
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	if stream.Info == nil || stream.Info.SampleRate == 0 || stream.Info.NChannels == 0 {
		stream.Close()
		f.Close()
		return nil, fmt.Errorf("invalid FLAC stream info")
	}

	return &FLACDecoder{
		stream:      stream,
		file:        f,
		sampleRate:  int(stream.Info.SampleRate),
		numSamples:  int64(stream.Info.NSamples),
		numChannels: int(stream.Info.NChannels),
	}, nil
}

// ReadChunk reads up to numSamples mono samples
func (d *FLACDecoder) ReadChunk(numSamples int) ([]float64, error) {
	samples := make([]float64, 0, numSamples)

	for len(samples) < numSamples {
		if len(d.pending) == 0 {
			if err := d.decodeFrame(); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}
			continue
		}

		n := min(numSamples-len(samples), len(d.pending))
		samples = append(samples, d.pending[:n]...)
		d.pending = d.pending[n:]
	}

	if len(samples) == 0 {
		return nil, io.EOF
	}
	return samples, nil
}

// decodeFrame parses the next FLAC frame into d.pending, downmixed to mono
func (d *FLACDecoder) decodeFrame() error {
	frame, err := d.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("failed to parse FLAC frame: %w", err)
	}
	if len(frame.Subframes) == 0 {
		return fmt.Errorf("FLAC frame has no subframes")
	}

	// FLAC supports 4-32 bits per sample
	maxVal := fullScale(int(frame.BitsPerSample))
	frameSamples := len(frame.Subframes[0].Samples)
	channels := float64(len(frame.Subframes))

	mono := make([]float64, frameSamples)
	for i := 0; i < frameSamples; i++ {
		var sum int64
		for _, subframe := range frame.Subframes {
			sum += int64(subframe.Samples[i])
		}
		mono[i] = float64(sum) / channels / maxVal
	}

	d.pending = mono
	return nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the total number of samples per channel
// Returns 0 if the encoder did not record it
func (d *FLACDecoder) NumSamples() int64 {
	return d.numSamples
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		d.stream.Close()
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
