package extract

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/linuxmatters/jivevec/internal/config"
)

// Vector is a fixed-length feature summary of one audio file
type Vector []float64

// errUnknownMethod is wrapped into KindUnknownAverageMethod by the extractor
type errUnknownMethod struct {
	method config.AverageMethod
}

func (e errUnknownMethod) Error() string {
	return fmt.Sprintf("unknown averaging method %q", string(e.method))
}

// Reduce collapses a feature matrix over time, returning one value per row
func Reduce(m mat.Matrix, method config.AverageMethod) (Vector, error) {
	rows, cols := m.Dims()
	if cols == 0 {
		return nil, fmt.Errorf("feature matrix has no frames")
	}

	var reduce func([]float64) float64
	switch method {
	case config.Mean:
		reduce = func(row []float64) float64 { return stat.Mean(row, nil) }
	case config.Median:
		reduce = median
	default:
		return nil, errUnknownMethod{method: method}
	}

	vec := make(Vector, rows)
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		mat.Row(row, r, m)
		vec[r] = reduce(row)
	}
	return vec, nil
}

// median sorts row in place and returns its middle value, averaging the two
// middle values when the length is even
func median(row []float64) float64 {
	slices.Sort(row)
	mid := len(row) / 2
	if len(row)%2 == 1 {
		return row[mid]
	}
	return (row[mid-1] + row[mid]) / 2
}

// Normalize scales v to unit Euclidean length in place.
// A zero vector is left unchanged.
func Normalize(v Vector) Vector {
	norm := floats.Norm(v, 2)
	if norm > 0 {
		floats.Scale(1/norm, v)
	}
	return v
}
