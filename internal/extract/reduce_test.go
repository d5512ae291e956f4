package extract

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/linuxmatters/jivevec/internal/config"
)

func TestReduce_Mean(t *testing.T) {
	m := mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		-1, -1, 5, 5,
	})

	vec, err := Reduce(m, config.Mean)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if vec[0] != 2.5 || vec[1] != 2 {
		t.Errorf("Reduce mean = %v, want [2.5 2]", vec)
	}
}

func TestReduce_Median(t *testing.T) {
	testCases := []struct {
		name string
		row  []float64
		want float64
	}{
		{name: "odd", row: []float64{9, 1, 5}, want: 5},
		{name: "even averages middle pair", row: []float64{4, 1, 3, 100}, want: 3.5},
		{name: "single frame", row: []float64{-2}, want: -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := mat.NewDense(1, len(tc.row), tc.row)
			vec, err := Reduce(m, config.Median)
			if err != nil {
				t.Fatalf("Reduce failed: %v", err)
			}
			if vec[0] != tc.want {
				t.Errorf("median = %g, want %g", vec[0], tc.want)
			}
		})
	}
}

// TestReduce_MedianLeavesInputIntact guards against sorting the caller's matrix
func TestReduce_MedianLeavesInputIntact(t *testing.T) {
	m := mat.NewDense(1, 3, []float64{3, 1, 2})
	if _, err := Reduce(m, config.Median); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if m.At(0, 0) != 3 || m.At(0, 1) != 1 || m.At(0, 2) != 2 {
		t.Errorf("input matrix modified: %v", mat.Formatted(m))
	}
}

func TestReduce_UnknownMethod(t *testing.T) {
	_, err := Reduce(mat.NewDense(1, 1, []float64{1}), "trimmed")
	if _, ok := err.(errUnknownMethod); !ok {
		t.Errorf("expected errUnknownMethod, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize(Vector{3, 4})
	if math.Abs(v[0]-0.6) > 1e-12 || math.Abs(v[1]-0.8) > 1e-12 {
		t.Errorf("Normalize([3 4]) = %v, want [0.6 0.8]", v)
	}

	zero := Normalize(Vector{0, 0, 0})
	for i, x := range zero {
		if x != 0 {
			t.Errorf("zero[%d] = %g, want 0", i, x)
		}
	}
}
