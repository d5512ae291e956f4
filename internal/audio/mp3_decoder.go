package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// mp3FrameBytes is the size of one decoded go-mp3 time sample:
// 16-bit little-endian stereo
const mp3FrameBytes = 4

// MP3Decoder implements Decoder for MP3 files
type MP3Decoder struct {
	decoder    *mp3.Decoder
	file       *os.File
	sampleRate int
	buf        []byte
}

// NewMP3Decoder creates a new MP3 decoder
func NewMP3Decoder(filename string) (*MP3Decoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	return &MP3Decoder{
		decoder:    decoder,
		file:       f,
		sampleRate: decoder.SampleRate(),
	}, nil
}

// ReadChunk reads up to numSamples mono samples.
// go-mp3 always outputs interleaved stereo, which is averaged to mono.
func (d *MP3Decoder) ReadChunk(numSamples int) ([]float64, error) {
	want := numSamples * mp3FrameBytes
	if cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	buf := d.buf[:want]

	// ReadFull keeps frames aligned; a short final read is not an error
	n, err := io.ReadFull(d.decoder, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read MP3 data: %w", err)
	}

	frames := n / mp3FrameBytes
	if frames == 0 {
		return nil, io.EOF
	}

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left := int16(binary.LittleEndian.Uint16(buf[i*4:]))
		right := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
		samples[i] = (float64(left) + float64(right)) / (2 * fullScale(16))
	}

	return samples, nil
}

// SampleRate returns the sample rate
func (d *MP3Decoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the decoded length in time samples
func (d *MP3Decoder) NumSamples() int64 {
	return d.decoder.Length() / mp3FrameBytes
}

// NumChannels returns the number of channels go-mp3 produces
func (d *MP3Decoder) NumChannels() int {
	return 2
}

// Close closes the decoder and releases resources
func (d *MP3Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
