package spectral

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Magnitude computes |X| for each complex bin
func Magnitude(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// RealPart keeps the real component of each element
func RealPart(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = real(v)
	}
	return out
}

// AbsReal returns |x| elementwise
func AbsReal(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}

// MagnitudeGrid computes |X| over a rectangular complex grid
func MagnitudeGrid(x [][]complex128) *mat.Dense {
	return complexGridToDense(x, cmplx.Abs)
}

// RealGrid keeps the real component over a rectangular complex grid
func RealGrid(x [][]complex128) *mat.Dense {
	return complexGridToDense(x, func(v complex128) float64 { return real(v) })
}

func complexGridToDense(x [][]complex128, f func(complex128) float64) *mat.Dense {
	if len(x) == 0 || len(x[0]) == 0 {
		return &mat.Dense{}
	}
	rows, cols := len(x), len(x[0])
	out := mat.NewDense(rows, cols, nil)
	for r, row := range x {
		dst := out.RawRowView(r)
		for c, v := range row {
			dst[c] = f(v)
		}
	}
	return out
}

// IsZero reports whether every value is within tol of zero. Callers use it
// to flag a signal or spectrum with nothing to show.
func IsZero(x []float64, tol float64) bool {
	for _, v := range x {
		if math.Abs(v) > tol {
			return false
		}
	}
	return true
}
