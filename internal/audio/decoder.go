package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when a file is not WAV, MP3 or FLAC
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNoAudio is returned when a file decodes to zero samples
	ErrNoAudio = errors.New("no audio samples decoded")
)

// Decoder defines the interface for all audio format decoders.
// Implementations always return mono samples in [-1.0, 1.0].
type Decoder interface {
	// ReadChunk reads up to numSamples mono samples
	// Returns io.EOF when the stream is exhausted
	ReadChunk(numSamples int) ([]float64, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the number of channels in the source (1=mono, 2=stereo)
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

// Waveform is decoded mono audio at a known sample rate
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Open returns a streaming decoder for the file's detected format
func Open(filename string) (Decoder, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatWAV:
		return NewWAVDecoder(filename)
	case FormatMP3:
		return NewMP3Decoder(filename)
	case FormatFLAC:
		return NewFLACDecoder(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// fullScale returns the divisor that maps signed PCM of the given bit depth to [-1.0, 1.0)
func fullScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return float64(int64(1) << (bitDepth - 1))
}
