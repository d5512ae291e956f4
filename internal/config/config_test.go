package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestBuiltin_VectorLengths verifies every shipped configuration produces the
// documented vector length. Downstream indexes are sized from these numbers,
// so a silent change here would corrupt stored vectors.
func TestBuiltin_VectorLengths(t *testing.T) {
	want := []int{180, 40, 240, 180, 300, 20, 150, 30, 240, 360}

	catalog := Builtin()
	if catalog.Len() != len(want) {
		t.Fatalf("Builtin().Len() = %d, want %d", catalog.Len(), len(want))
	}

	for i, length := range want {
		cfg, err := catalog.Lookup(i)
		if err != nil {
			t.Fatalf("Lookup(%d) returned error: %v", i, err)
		}
		if got := cfg.VectorLength(); got != length {
			t.Errorf("config %d: VectorLength() = %d, want %d", i, got, length)
		}
	}
}

// TestBuiltin_EntriesAreValid catches catalog edits that would only fail at
// extraction time.
func TestBuiltin_EntriesAreValid(t *testing.T) {
	for i, cfg := range Builtin().All() {
		if cfg.MFCCCount <= 0 || cfg.MFCCCount > NumMelBands {
			t.Errorf("config %d: MFCCCount %d outside 1-%d", i, cfg.MFCCCount, NumMelBands)
		}
		if cfg.SampleRate <= 0 {
			t.Errorf("config %d: SampleRate %d not positive", i, cfg.SampleRate)
		}
		if !cfg.AverageMethod.Valid() {
			t.Errorf("config %d: AverageMethod %q not valid", i, cfg.AverageMethod)
		}
	}
}

func TestBuiltin_DefaultEntry(t *testing.T) {
	cfg, err := Builtin().Lookup(0)
	if err != nil {
		t.Fatalf("Lookup(0) returned error: %v", err)
	}

	want := Extraction{
		MFCCCount:     60,
		SampleRate:    44100,
		IncludeDeltas: true,
		AverageMethod: Mean,
		Normalize:     true,
		Description:   cfg.Description,
	}
	if cfg != want {
		t.Errorf("Lookup(0) = %+v, want %+v", cfg, want)
	}
}

func TestCatalog_LookupOutOfRange(t *testing.T) {
	testCases := []struct {
		name  string
		index int
	}{
		{name: "negative", index: -1},
		{name: "one past end", index: Builtin().Len()},
		{name: "far past end", index: 999},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Builtin().Lookup(tc.index)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("Lookup(%d) error = %v, want ErrIndexOutOfRange", tc.index, err)
			}
		})
	}
}

// TestCatalog_AllReturnsCopy verifies callers cannot mutate the shared table.
func TestCatalog_AllReturnsCopy(t *testing.T) {
	entries := Builtin().All()
	entries[0].MFCCCount = 1

	cfg, _ := Builtin().Lookup(0)
	if cfg.MFCCCount != 60 {
		t.Errorf("builtin catalog mutated through All(): MFCCCount = %d", cfg.MFCCCount)
	}
}

func TestNewCatalog_CopiesEntries(t *testing.T) {
	entries := []Extraction{{MFCCCount: 13, SampleRate: 16000, AverageMethod: Mean}}
	catalog := NewCatalog(entries)
	entries[0].MFCCCount = 99

	cfg, err := catalog.Lookup(0)
	if err != nil {
		t.Fatalf("Lookup(0) returned error: %v", err)
	}
	if cfg.MFCCCount != 13 {
		t.Errorf("NewCatalog did not copy entries: MFCCCount = %d", cfg.MFCCCount)
	}
}

func TestParseCatalog_Valid(t *testing.T) {
	data := []byte(`
configs:
  - mfcc: 13
    sample_rate: 16000
    deltas: true
    average: median
    normalize: false
    description: speech
  - mfcc: 20
    sample_rate: 22050
`)

	catalog, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog returned error: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", catalog.Len())
	}

	first, _ := catalog.Lookup(0)
	want := Extraction{
		MFCCCount:     13,
		SampleRate:    16000,
		IncludeDeltas: true,
		AverageMethod: Median,
		Normalize:     false,
		Description:   "speech",
	}
	if first != want {
		t.Errorf("entry 0 = %+v, want %+v", first, want)
	}

	// Defaults for omitted fields
	second, _ := catalog.Lookup(1)
	if second.AverageMethod != Mean {
		t.Errorf("entry 1 AverageMethod = %q, want %q", second.AverageMethod, Mean)
	}
	if !second.Normalize {
		t.Error("entry 1 Normalize = false, want true")
	}
	if second.VectorLength() != 20 {
		t.Errorf("entry 1 VectorLength() = %d, want 20", second.VectorLength())
	}
}

// TestParseCatalog_UnknownMethodKept verifies unknown averaging methods reach
// the extractor instead of being rewritten at load time.
func TestParseCatalog_UnknownMethodKept(t *testing.T) {
	catalog, err := ParseCatalog([]byte("configs:\n  - mfcc: 13\n    sample_rate: 16000\n    average: mode\n"))
	if err != nil {
		t.Fatalf("ParseCatalog returned error: %v", err)
	}

	cfg, _ := catalog.Lookup(0)
	if cfg.AverageMethod != "mode" {
		t.Errorf("AverageMethod = %q, want %q", cfg.AverageMethod, "mode")
	}
	if cfg.AverageMethod.Valid() {
		t.Error("AverageMethod \"mode\" reported as valid")
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "empty document", data: ""},
		{name: "no configs", data: "configs: []\n"},
		{name: "zero mfcc", data: "configs:\n  - mfcc: 0\n    sample_rate: 16000\n"},
		{name: "too many mfcc", data: "configs:\n  - mfcc: 200\n    sample_rate: 16000\n"},
		{name: "negative sample rate", data: "configs:\n  - mfcc: 13\n    sample_rate: -1\n"},
		{name: "malformed yaml", data: "configs: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tc.data)); err == nil {
				t.Errorf("ParseCatalog(%q) returned nil error", tc.data)
			}
		})
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("configs:\n  - mfcc: 40\n    sample_rate: 22050\n"), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if catalog.Len() != 1 {
		t.Errorf("Len() = %d, want 1", catalog.Len())
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadCatalog on missing file returned nil error")
	}
}
