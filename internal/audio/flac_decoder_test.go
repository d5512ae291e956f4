package audio

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const flacBlockSize = 4096

// writeTestFLAC writes a 16-bit stereo FLAC whose right channel is half the
// left, and returns its path with the exact mono samples it should decode to.
func writeTestFLAC(t *testing.T, freq, seconds float64, sampleRate int) (string, []float64) {
	t.Helper()

	n := int(seconds * float64(sampleRate))
	left := make([]int32, n)
	right := make([]int32, n)
	want := make([]float64, n)
	for i := range left {
		left[i] = int32(16000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		right[i] = left[i] / 2
		want[i] = float64(int64(left[i])+int64(right[i])) / 2 / 32768
	}

	path := filepath.Join(t.TempDir(), "sine.flac")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create FLAC file: %v", err)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     2,
		BitsPerSample: 16,
		NSamples:      uint64(n),
	}
	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		f.Close()
		t.Fatalf("failed to create FLAC encoder: %v", err)
	}

	for offset := 0; offset < n; offset += flacBlockSize {
		size := min(flacBlockSize, n-offset)
		fr := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(size),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.ChannelsLR,
				BitsPerSample:     16,
			},
		}
		for _, ch := range [][]int32{left, right} {
			fr.Subframes = append(fr.Subframes, &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   append([]int32(nil), ch[offset:offset+size]...),
				NSamples:  size,
			})
		}
		if err := enc.WriteFrame(fr); err != nil {
			enc.Close()
			t.Fatalf("failed to write FLAC frame: %v", err)
		}
	}

	// Close rewrites STREAMINFO and closes f
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close FLAC encoder: %v", err)
	}
	return path, want
}

func TestNewFLACDecoder(t *testing.T) {
	path, _ := writeTestFLAC(t, 440, 1.0, 44100)

	dec, err := NewFLACDecoder(path)
	if err != nil {
		t.Fatalf("Failed to create FLAC decoder: %v", err)
	}
	defer dec.Close()

	if dec.SampleRate() != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", dec.SampleRate())
	}
	if dec.NumChannels() != 2 {
		t.Errorf("Expected 2 channels, got %d", dec.NumChannels())
	}
	if dec.NumSamples() != 44100 {
		t.Errorf("Expected 44100 samples, got %d", dec.NumSamples())
	}
}

// TestFLACDecoderReadChunk reads with a chunk size that does not divide the
// block size, so chunks straddle frame boundaries.
func TestFLACDecoderReadChunk(t *testing.T) {
	path, want := writeTestFLAC(t, 440, 1.0, 44100)

	dec, err := NewFLACDecoder(path)
	if err != nil {
		t.Fatalf("Failed to create FLAC decoder: %v", err)
	}
	defer dec.Close()

	const chunkSize = 1000
	var got []float64
	for {
		chunk, err := dec.ReadChunk(chunkSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadChunk failed after %d samples: %v", len(got), err)
		}
		if len(chunk) != chunkSize && len(got)+len(chunk) != len(want) {
			t.Fatalf("short chunk of %d samples at offset %d", len(chunk), len(got))
		}
		got = append(got, chunk...)
	}

	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %g, want %g", i, got[i], want[i])
		}
	}

	if _, err := dec.ReadChunk(chunkSize); !errors.Is(err, io.EOF) {
		t.Errorf("ReadChunk after end = %v, want io.EOF", err)
	}
}

func TestLoad_FLAC(t *testing.T) {
	path, want := writeTestFLAC(t, 440, 1.0, 44100)

	wave, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if wave.SampleRate != 44100 || len(wave.Samples) != len(want) {
		t.Fatalf("got %d samples at %d Hz, want %d at 44100 Hz", len(wave.Samples), wave.SampleRate, len(want))
	}

	var maxErr float64
	for i := range want {
		maxErr = max(maxErr, math.Abs(wave.Samples[i]-want[i]))
	}
	if maxErr != 0 {
		t.Errorf("max abs error = %g, want exact mono average", maxErr)
	}

	resampled, err := Load(path, 16000)
	if err != nil {
		t.Fatalf("Load with resampling failed: %v", err)
	}
	if len(resampled.Samples) != 16000 {
		t.Errorf("resampled length = %d, want 16000", len(resampled.Samples))
	}
}

func TestProbe_FLAC(t *testing.T) {
	path, _ := writeTestFLAC(t, 440, 1.0, 44100)

	md, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if md.Format != FormatFLAC {
		t.Errorf("Format = %s, want flac", md.Format)
	}
	if md.SampleRate != 44100 || md.Channels != 2 {
		t.Errorf("got %d Hz, %d channels; want 44100 Hz stereo", md.SampleRate, md.Channels)
	}
	if md.NumSamples != 44100 {
		t.Errorf("NumSamples = %d, want 44100", md.NumSamples)
	}
	if math.Abs(md.Duration-1.0) > 1e-9 {
		t.Errorf("Duration = %.6f, want 1.0", md.Duration)
	}
}
