package dsp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrTooFewFrames is returned when a feature matrix is shorter than the
// delta window
var ErrTooFewFrames = errors.New("too few frames for delta window")

// SavGolCoeffs returns Savitzky-Golay filter coefficients.
//
// A polynomial of degree polyorder is fitted by least squares to width
// samples at offsets -width/2..width/2, and its deriv-th derivative is
// evaluated at offset pos. The result is the weight applied to each sample
// in the window, in window order.
func SavGolCoeffs(width, polyorder, deriv int, pos float64) ([]float64, error) {
	if width <= 0 || width%2 == 0 {
		return nil, fmt.Errorf("window width %d must be a positive odd number", width)
	}
	if polyorder >= width {
		return nil, fmt.Errorf("polyorder %d must be less than width %d", polyorder, width)
	}
	if deriv > polyorder {
		return nil, fmt.Errorf("derivative order %d exceeds polyorder %d", deriv, polyorder)
	}

	half := width / 2
	terms := polyorder + 1

	// Vandermonde matrix of window offsets
	a := mat.NewDense(width, terms, nil)
	for i := 0; i < width; i++ {
		x := float64(i - half)
		v := 1.0
		for j := 0; j < terms; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}

	// Least squares solution operator (AᵀA)⁻¹Aᵀ maps samples to polynomial coefficients
	var ata mat.Dense
	ata.Mul(a.T(), a)
	var pinv mat.Dense
	if err := pinv.Solve(&ata, a.T()); err != nil {
		return nil, fmt.Errorf("savitzky-golay fit failed: %w", err)
	}

	// d^deriv/dx^deriv of sum c_j x^j at pos
	weights := make([]float64, terms)
	for j := deriv; j < terms; j++ {
		w := 1.0
		for k := 0; k < deriv; k++ {
			w *= float64(j - k)
		}
		for k := 0; k < j-deriv; k++ {
			w *= pos
		}
		weights[j] = w
	}

	coeffs := make([]float64, width)
	for i := 0; i < width; i++ {
		var sum float64
		for j := deriv; j < terms; j++ {
			sum += weights[j] * pinv.At(j, i)
		}
		coeffs[i] = sum
	}

	return coeffs, nil
}

// Delta estimates the order-th time derivative of each row of features.
//
// Each row is smoothed with a Savitzky-Golay filter of the given width and
// polynomial order equal to order. Near the edges, where a centred window does
// not fit, a polynomial is fitted to the first (or last) width frames and its
// derivative evaluated at the frame's position inside that window. The
// output has the same shape as the input.
func Delta(features mat.Matrix, width, order int) (*mat.Dense, error) {
	if order < 1 {
		return nil, fmt.Errorf("delta order must be at least 1, got %d", order)
	}

	rows, frames := features.Dims()
	if frames < width {
		return nil, fmt.Errorf("%w: %d frames, window %d", ErrTooFewFrames, frames, width)
	}

	half := width / 2

	centre, err := SavGolCoeffs(width, order, order, 0)
	if err != nil {
		return nil, err
	}

	// Edge coefficient sets, indexed by position in the edge window
	leading := make([][]float64, half)
	trailing := make([][]float64, half)
	for k := 0; k < half; k++ {
		if leading[k], err = SavGolCoeffs(width, order, order, float64(k-half)); err != nil {
			return nil, err
		}
		if trailing[k], err = SavGolCoeffs(width, order, order, float64(k+1)); err != nil {
			return nil, err
		}
	}

	out := mat.NewDense(rows, frames, nil)
	row := make([]float64, frames)

	for r := 0; r < rows; r++ {
		mat.Row(row, r, features)

		for t := 0; t < frames; t++ {
			var coeffs []float64
			var start int

			switch {
			case t < half:
				coeffs, start = leading[t], 0
			case t >= frames-half:
				coeffs, start = trailing[t-(frames-half)], frames-width
			default:
				coeffs, start = centre, t-half
			}

			var sum float64
			for i, c := range coeffs {
				sum += c * row[start+i]
			}
			out.Set(r, t, sum)
		}
	}

	return out, nil
}
