package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/linuxmatters/jivevec/internal/config"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Record is one vector as written in json and yaml output
type Record struct {
	Path   string    `json:"path" yaml:"path"`
	Config int       `json:"config" yaml:"config"`
	Length int       `json:"length" yaml:"length"`
	Vector []float64 `json:"vector" yaml:"vector,flow"`
}

// NewRecord builds a Record for vec
func NewRecord(path string, configIndex int, vec []float64) Record {
	return Record{Path: path, Config: configIndex, Length: len(vec), Vector: vec}
}

// FormatVector renders vec as space-separated values on one line with
// precision significant digits
func FormatVector(vec []float64, precision int) string {
	if precision <= 0 {
		precision = config.DefaultPrecision
	}

	var sb strings.Builder
	for i, v := range vec {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', precision, 64))
	}
	return sb.String()
}

// WriteVector writes a single vector in the requested format.
// Text output is the bare vector; json and yaml wrap it in a Record.
func WriteVector(w io.Writer, format string, precision int, rec Record) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintln(w, FormatVector(rec.Vector, precision))
		return err
	case FormatJSON:
		return json.NewEncoder(w).Encode(rec)
	case FormatYAML:
		return writeYAML(w, rec)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteRecords writes batch results. Text output prefixes each vector with
// its path and a tab; json output is one object per line; yaml output is a
// sequence.
func WriteRecords(w io.Writer, format string, precision int, records []Record) error {
	switch format {
	case FormatText, "":
		for _, rec := range records {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", rec.Path, FormatVector(rec.Vector, precision)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		if records == nil {
			records = []Record{}
		}
		return writeYAML(w, records)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// CatalogTable renders catalog entries as a styled table
func CatalogTable(entries []config.Extraction) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(FireYellow).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	indexStyle := cellStyle.Foreground(FireOrange)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(FireCrimson)).
		Headers("#", "MFCC", "Rate", "Deltas", "Average", "Normalise", "Length", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return indexStyle
			default:
				return cellStyle
			}
		})

	for i, e := range entries {
		t.Row(
			strconv.Itoa(i),
			strconv.Itoa(e.MFCCCount),
			strconv.Itoa(e.SampleRate),
			yesNo(e.IncludeDeltas),
			string(e.AverageMethod),
			yesNo(e.Normalize),
			strconv.Itoa(e.VectorLength()),
			e.Description,
		)
	}

	return t.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
