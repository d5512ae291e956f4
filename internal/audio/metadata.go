package audio

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metadata holds information about an audio file
type Metadata struct {
	Format     Format
	SampleRate int
	Channels   int
	NumSamples int64   // per channel, 0 when the container does not declare it
	Duration   float64 // in seconds
}

// sampleCounter is implemented by decoders whose container declares its length
type sampleCounter interface {
	NumSamples() int64
}

// Probe reads an audio file's header without decoding its samples
func Probe(filename string) (*Metadata, error) {
	dec, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	md := &Metadata{
		Format:     formatOf(dec),
		SampleRate: dec.SampleRate(),
		Channels:   dec.NumChannels(),
	}
	if sc, ok := dec.(sampleCounter); ok {
		md.NumSamples = sc.NumSamples()
	}
	if md.SampleRate > 0 {
		md.Duration = float64(md.NumSamples) / float64(md.SampleRate)
	}

	return md, nil
}

// formatOf reports the container a decoder reads
func formatOf(dec Decoder) Format {
	switch dec.(type) {
	case *WAVDecoder:
		return FormatWAV
	case *MP3Decoder:
		return FormatMP3
	case *FLACDecoder:
		return FormatFLAC
	default:
		return FormatUnknown
	}
}

// SilenceDB is the level reported for digital silence
const SilenceDB = -120.0

// Levels holds signal level statistics for a waveform
type Levels struct {
	Peak float64 // Largest absolute sample
	RMS  float64 // Root mean square
}

// MeasureLevels computes peak and RMS levels of samples
func MeasureLevels(samples []float64) Levels {
	if len(samples) == 0 {
		return Levels{}
	}
	return Levels{
		Peak: floats.Norm(samples, math.Inf(1)),
		RMS:  floats.Norm(samples, 2) / math.Sqrt(float64(len(samples))),
	}
}

// PeakDB returns the peak level in dBFS, floored at SilenceDB
func (l Levels) PeakDB() float64 {
	return toDB(l.Peak)
}

// RMSDB returns the RMS level in dBFS, floored at SilenceDB
func (l Levels) RMSDB() float64 {
	return toDB(l.RMS)
}

func toDB(level float64) float64 {
	if level <= 0 {
		return SilenceDB
	}
	return max(20*math.Log10(level), SilenceDB)
}

// DynamicRange returns the crest factor in dB
func (l Levels) DynamicRange() float64 {
	if l.RMS == 0 {
		return 0
	}
	return 20 * math.Log10(l.Peak/l.RMS)
}
