package spectral

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// FFT2 computes the 2-D Fourier transform of a real matrix. The result is
// frequency-shifted so the zero-frequency bin sits at (rows/2, cols/2).
func FFT2(m mat.Matrix) ([][]complex128, error) {
	if err := checkMatrix("fft2", m); err != nil {
		return nil, err
	}
	return Shift2(fft.FFT2Real(matrixRows(m))), nil
}

// FFT2Complex is FFT2 for complex input
func FFT2Complex(x [][]complex128) ([][]complex128, error) {
	if err := checkGrid("fft2", x); err != nil {
		return nil, err
	}
	return Shift2(fft.FFT2(x)), nil
}

// IFFT2 undoes the frequency shift of FFT2 and applies the 2-D inverse
// transform, so IFFT2(FFT2(m)) == m up to rounding.
func IFFT2(x [][]complex128) ([][]complex128, error) {
	if err := checkGrid("ifft2", x); err != nil {
		return nil, err
	}
	return fft.IFFT2(Unshift2(x)), nil
}

// Shift2 moves the zero-frequency element to the centre of both axes
// (fftshift). Odd sizes are handled; Unshift2 is its exact inverse.
func Shift2[T any](x [][]T) [][]T {
	rows := len(x)
	if rows == 0 {
		return [][]T{}
	}
	cols := len(x[0])

	out := make([][]T, rows)
	for r := range out {
		out[r] = make([]T, cols)
	}
	for r := 0; r < rows; r++ {
		dr := (r + rows/2) % rows
		for c := 0; c < cols; c++ {
			out[dr][(c+cols/2)%cols] = x[r][c]
		}
	}
	return out
}

// Unshift2 reverses Shift2 (ifftshift)
func Unshift2[T any](x [][]T) [][]T {
	rows := len(x)
	if rows == 0 {
		return [][]T{}
	}
	cols := len(x[0])

	out := make([][]T, rows)
	for r := range out {
		out[r] = make([]T, cols)
	}
	for r := 0; r < rows; r++ {
		sr := (r + rows/2) % rows
		for c := 0; c < cols; c++ {
			out[r][c] = x[sr][(c+cols/2)%cols]
		}
	}
	return out
}

func checkMatrix(op string, m mat.Matrix) error {
	if common.IsNilMatrix(m) {
		return common.NewComputationError(op, "nil matrix")
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return common.NewComputationError(op, "empty %dx%d input", rows, cols)
	}
	return nil
}

func checkGrid[T any](op string, x [][]T) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return common.NewComputationError(op, "empty input")
	}
	cols := len(x[0])
	for r, row := range x {
		if len(row) != cols {
			return common.NewComputationError(op, "ragged input: row %d has %d columns, want %d", r, len(row), cols)
		}
	}
	return nil
}

func matrixRows(m mat.Matrix) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
		for c := range out[r] {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}
