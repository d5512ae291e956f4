package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrIndexOutOfRange is returned when a catalog lookup misses
var ErrIndexOutOfRange = errors.New("configuration index out of range")

// AverageMethod selects how per-frame features are reduced over time
type AverageMethod string

const (
	Mean   AverageMethod = "mean"
	Median AverageMethod = "median"
)

// Valid reports whether m is one of the supported reductions
func (m AverageMethod) Valid() bool {
	return m == Mean || m == Median
}

// Extraction is one complete set of feature extraction parameters
type Extraction struct {
	MFCCCount     int
	SampleRate    int
	IncludeDeltas bool
	AverageMethod AverageMethod
	Normalize     bool
	Description   string
}

// VectorLength returns the length of the vector produced by this configuration
func (e Extraction) VectorLength() int {
	if e.IncludeDeltas {
		return 3 * e.MFCCCount
	}
	return e.MFCCCount
}

// Catalog is an indexed, read-only list of extraction configurations.
// The zero value is an empty catalog.
type Catalog struct {
	entries []Extraction
}

// builtin is the catalog compiled into the binary.
// Index 0 is the default.
var builtin = Catalog{entries: []Extraction{
	{MFCCCount: 60, SampleRate: 44100, IncludeDeltas: true, AverageMethod: Mean, Normalize: true,
		Description: "Base configuration"},
	{MFCCCount: 40, SampleRate: 22050, IncludeDeltas: false, AverageMethod: Mean, Normalize: true,
		Description: "Reduced MFCC count, no deltas"},
	{MFCCCount: 80, SampleRate: 48000, IncludeDeltas: true, AverageMethod: Median, Normalize: true,
		Description: "Increased MFCC count, median instead of mean"},
	{MFCCCount: 60, SampleRate: 44100, IncludeDeltas: true, AverageMethod: Mean, Normalize: false,
		Description: "No vector normalisation"},
	{MFCCCount: 100, SampleRate: 96000, IncludeDeltas: true, AverageMethod: Mean, Normalize: true,
		Description: "Maximum detail with high sampling rate"},
	{MFCCCount: 20, SampleRate: 16000, IncludeDeltas: false, AverageMethod: Mean, Normalize: true,
		Description: "Only MFCC, low sampling rate for lightweight extraction"},
	{MFCCCount: 50, SampleRate: 22050, IncludeDeltas: true, AverageMethod: Mean, Normalize: true,
		Description: "Mid-size MFCC with deltas"},
	{MFCCCount: 30, SampleRate: 44100, IncludeDeltas: false, AverageMethod: Median, Normalize: true,
		Description: "Shorter MFCC range, no deltas, median averaging"},
	{MFCCCount: 80, SampleRate: 32000, IncludeDeltas: true, AverageMethod: Mean, Normalize: true,
		Description: "High MFCC range with deltas"},
	{MFCCCount: 120, SampleRate: 96000, IncludeDeltas: true, AverageMethod: Mean, Normalize: true,
		Description: "Maximised spectro-temporal description"},
}}

// Builtin returns the catalog compiled into the binary
func Builtin() Catalog {
	return builtin
}

// NewCatalog builds a catalog from entries. The slice is copied.
func NewCatalog(entries []Extraction) Catalog {
	return Catalog{entries: append([]Extraction(nil), entries...)}
}

// Len returns the number of configurations
func (c Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the configuration at index
func (c Catalog) Lookup(index int) (Extraction, error) {
	if index < 0 || index >= len(c.entries) {
		return Extraction{}, fmt.Errorf("%w: %d (valid range 0-%d)", ErrIndexOutOfRange, index, len(c.entries)-1)
	}
	return c.entries[index], nil
}

// All returns a copy of every configuration in index order
func (c Catalog) All() []Extraction {
	return append([]Extraction(nil), c.entries...)
}

type catalogFile struct {
	Configs []catalogEntry `yaml:"configs"`
}

type catalogEntry struct {
	MFCC        int    `yaml:"mfcc"`
	SampleRate  int    `yaml:"sample_rate"`
	Deltas      bool   `yaml:"deltas"`
	Average     string `yaml:"average"`
	Normalize   *bool  `yaml:"normalize"`
	Description string `yaml:"description"`
}

// LoadCatalog reads a YAML catalog file.
//
//	configs:
//	  - mfcc: 60
//	    sample_rate: 44100
//	    deltas: true
//	    average: mean
//	    normalize: true
//
// Missing average defaults to mean and missing normalize defaults to true.
// Average methods are not checked here: the extractor rejects unknown ones
// when the entry is used.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	return ParseCatalog(data)
}

// ParseCatalog parses YAML catalog data, see LoadCatalog
func ParseCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Configs) == 0 {
		return Catalog{}, fmt.Errorf("catalog has no configs")
	}

	entries := make([]Extraction, 0, len(f.Configs))
	for i, e := range f.Configs {
		if e.MFCC <= 0 {
			return Catalog{}, fmt.Errorf("config %d: mfcc must be positive, got %d", i, e.MFCC)
		}
		if e.MFCC > NumMelBands {
			return Catalog{}, fmt.Errorf("config %d: mfcc must not exceed %d mel bands, got %d", i, NumMelBands, e.MFCC)
		}
		if e.SampleRate <= 0 {
			return Catalog{}, fmt.Errorf("config %d: sample_rate must be positive, got %d", i, e.SampleRate)
		}

		method := AverageMethod(e.Average)
		if method == "" {
			method = Mean
		}
		normalize := true
		if e.Normalize != nil {
			normalize = *e.Normalize
		}

		entries = append(entries, Extraction{
			MFCCCount:     e.MFCC,
			SampleRate:    e.SampleRate,
			IncludeDeltas: e.Deltas,
			AverageMethod: method,
			Normalize:     normalize,
			Description:   e.Description,
		})
	}

	return Catalog{entries: entries}, nil
}
