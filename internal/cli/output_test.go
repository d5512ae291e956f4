package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/linuxmatters/jivevec/internal/config"
)

func TestFormatVector(t *testing.T) {
	testCases := []struct {
		name      string
		vec       []float64
		precision int
		want      string
	}{
		{name: "empty", vec: nil, precision: 8, want: ""},
		{name: "simple", vec: []float64{0.6, 0.8}, precision: 8, want: "0.6 0.8"},
		{name: "rounded", vec: []float64{1.0 / 3, -2.0 / 3}, precision: 3, want: "0.333 -0.667"},
		{name: "default precision", vec: []float64{0.123456789123}, precision: 0, want: "0.12345679"},
		{name: "small values", vec: []float64{1.5e-9}, precision: 4, want: "1.5e-09"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatVector(tc.vec, tc.precision); got != tc.want {
				t.Errorf("FormatVector() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWriteVector_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVector(&buf, FormatText, 8, NewRecord("a.wav", 0, []float64{0.6, 0.8})); err != nil {
		t.Fatalf("WriteVector failed: %v", err)
	}
	if buf.String() != "0.6 0.8\n" {
		t.Errorf("text output = %q, want %q", buf.String(), "0.6 0.8\n")
	}
}

func TestWriteVector_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVector(&buf, FormatJSON, 8, NewRecord("a.wav", 2, []float64{0.6, 0.8})); err != nil {
		t.Fatalf("WriteVector failed: %v", err)
	}

	var got Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Path != "a.wav" || got.Config != 2 || got.Length != 2 || len(got.Vector) != 2 {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestWriteRecords_YAML(t *testing.T) {
	records := []Record{
		NewRecord("a.wav", 1, []float64{1}),
		NewRecord("b.flac", 1, []float64{0, 1}),
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, FormatYAML, 8, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	var got []Record
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1].Path != "b.flac" || got[1].Length != 2 {
		t.Errorf("unexpected records: %+v", got)
	}
}

func TestWriteRecords_TextAndJSONLines(t *testing.T) {
	records := []Record{
		NewRecord("a.wav", 0, []float64{0.5}),
		NewRecord("b.wav", 0, []float64{0.25}),
	}

	var text bytes.Buffer
	if err := WriteRecords(&text, FormatText, 8, records); err != nil {
		t.Fatalf("WriteRecords text failed: %v", err)
	}
	if text.String() != "a.wav\t0.5\nb.wav\t0.25\n" {
		t.Errorf("text output = %q", text.String())
	}

	var lines bytes.Buffer
	if err := WriteRecords(&lines, FormatJSON, 8, records); err != nil {
		t.Fatalf("WriteRecords json failed: %v", err)
	}
	if n := strings.Count(lines.String(), "\n"); n != 2 {
		t.Errorf("expected one JSON object per line, got %d lines", n)
	}
}

func TestWriteVector_UnknownFormat(t *testing.T) {
	if err := WriteVector(&bytes.Buffer{}, "csv", 8, Record{}); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestCatalogTable(t *testing.T) {
	out := CatalogTable(config.Builtin().All())

	for _, want := range []string{"MFCC", "Base configuration", "median", "180", "360"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog table missing %q:\n%s", want, out)
		}
	}
}
