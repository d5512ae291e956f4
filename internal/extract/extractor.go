// Package extract turns audio files into fixed-length MFCC summary vectors.
//
// An Extractor resolves a configuration from its catalog, decodes the file to
// mono at the configured rate, computes MFCCs (plus first and second order
// deltas when enabled), reduces each coefficient over time with the mean or
// median, and optionally scales the result to unit length.
//
// Failures are returned as *Error values carrying the file path, the
// configuration index and the underlying cause. Each failure is also logged
// once. An Extractor holds no per-call state and is safe for concurrent use.
package extract

import (
	"fmt"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/linuxmatters/jivevec/internal/audio"
	"github.com/linuxmatters/jivevec/internal/config"
	"github.com/linuxmatters/jivevec/internal/dsp"
)

// Decoder loads an audio file as mono samples at targetRate
type Decoder interface {
	Decode(path string, targetRate int) (*audio.Waveform, error)
}

// Spectral computes MFCCs and their time derivatives.
// MFCC returns n rows (coefficients) by frames; Delta preserves shape.
type Spectral interface {
	MFCC(samples []float64, sampleRate, n int) (*mat.Dense, error)
	Delta(features *mat.Dense, order int) (*mat.Dense, error)
}

// Config holds Extractor dependencies. Zero fields fall back to defaults:
// the built-in catalog, file decoding, the dsp library and a discarding logger.
type Config struct {
	Catalog  *config.Catalog
	Decoder  Decoder
	Spectral Spectral
	Logger   *slog.Logger
}

// Extractor computes feature vectors for audio files
type Extractor struct {
	catalog  config.Catalog
	decoder  Decoder
	spectral Spectral
	logger   *slog.Logger
}

// New creates an Extractor
func New(cfg Config) *Extractor {
	e := &Extractor{
		catalog:  config.Builtin(),
		decoder:  cfg.Decoder,
		spectral: cfg.Spectral,
		logger:   cfg.Logger,
	}
	if cfg.Catalog != nil {
		e.catalog = *cfg.Catalog
	}
	if e.decoder == nil {
		e.decoder = audio.FileDecoder{}
	}
	if e.spectral == nil {
		e.spectral = dsp.NewLibrary()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Catalog returns the configurations this Extractor selects from
func (e *Extractor) Catalog() config.Catalog {
	return e.catalog
}

// Extract computes the feature vector for path using configuration index.
// On failure the vector is nil and err is an *Error.
func (e *Extractor) Extract(path string, index int) (Vector, error) {
	features, cfg, err := e.Features(path, index)
	if err != nil {
		return nil, err
	}

	vec, err := Reduce(features, cfg.AverageMethod)
	if err != nil {
		kind := KindComputeFailed
		if _, ok := err.(errUnknownMethod); ok {
			kind = KindUnknownAverageMethod
		}
		return nil, e.fail(kind, path, index, err)
	}

	if cfg.Normalize {
		Normalize(vec)
	}

	e.logger.Debug("extraction done",
		"path", path,
		"config", index,
		"length", len(vec),
	)
	return vec, nil
}

// Features decodes path and returns the per-frame feature matrix for
// configuration index: MFCCs, stacked with their first and second deltas when
// the configuration includes them. Rows are coefficients, columns are frames.
func (e *Extractor) Features(path string, index int) (features *mat.Dense, cfg config.Extraction, err error) {
	// Panics from decoders or gonum shape checks are reported against the
	// stage that was running
	stage, kind := "decoder", KindDecodeFailed
	defer func() {
		if r := recover(); r != nil {
			features = nil
			err = e.fail(kind, path, index, fmt.Errorf("%s panicked: %v", stage, r))
		}
	}()

	cfg, err = e.catalog.Lookup(index)
	if err != nil {
		return nil, cfg, e.fail(KindConfigIndexOutOfRange, path, index, err)
	}

	// Closed set: a catalog loaded from file may carry any string
	if !cfg.AverageMethod.Valid() {
		return nil, cfg, e.fail(KindUnknownAverageMethod, path, index, errUnknownMethod{method: cfg.AverageMethod})
	}

	e.logger.Debug("decoding", "path", path, "config", index, "sample_rate", cfg.SampleRate)

	wave, err := e.decoder.Decode(path, cfg.SampleRate)
	if err != nil {
		return nil, cfg, e.fail(KindDecodeFailed, path, index, err)
	}

	e.logger.Debug("computing",
		"path", path,
		"config", index,
		"samples", len(wave.Samples),
		"duration", wave.Duration(),
	)

	stage, kind = "feature computation", KindComputeFailed
	features, err = e.compute(wave, cfg)
	if err != nil {
		return nil, cfg, e.fail(KindComputeFailed, path, index, err)
	}
	return features, cfg, nil
}

// compute runs the spectral stages for one decoded waveform
func (e *Extractor) compute(wave *audio.Waveform, cfg config.Extraction) (*mat.Dense, error) {
	mfcc, err := e.spectral.MFCC(wave.Samples, wave.SampleRate, cfg.MFCCCount)
	if err != nil {
		return nil, fmt.Errorf("mfcc: %w", err)
	}
	if rows, _ := mfcc.Dims(); rows != cfg.MFCCCount {
		return nil, fmt.Errorf("mfcc returned %d coefficients, want %d", rows, cfg.MFCCCount)
	}

	if !cfg.IncludeDeltas {
		return mfcc, nil
	}

	delta1, err := e.spectral.Delta(mfcc, 1)
	if err != nil {
		return nil, fmt.Errorf("delta: %w", err)
	}
	delta2, err := e.spectral.Delta(mfcc, 2)
	if err != nil {
		return nil, fmt.Errorf("delta-delta: %w", err)
	}

	var withDelta, combined mat.Dense
	withDelta.Stack(mfcc, delta1)
	combined.Stack(&withDelta, delta2)
	return &combined, nil
}

// fail logs a failed extraction and wraps it as an *Error
func (e *Extractor) fail(kind Kind, path string, index int, cause error) error {
	e.logger.Error("extraction failed",
		"path", path,
		"config", index,
		"kind", kind.String(),
		"error", cause,
	)
	return &Error{Kind: kind, Path: path, ConfigIndex: index, Cause: cause}
}
