package spectral

import (
	"gonum.org/v1/gonum/mat"
)

// DCT2 applies the orthonormal DCT along every row and then every column.
// Coefficients are not shifted; (0,0) is the DC term.
func DCT2(m mat.Matrix) (*mat.Dense, error) {
	if err := checkMatrix("dct2", m); err != nil {
		return nil, err
	}
	return separable(m, DCT)
}

// IDCT2 inverts DCT2
func IDCT2(m mat.Matrix) (*mat.Dense, error) {
	if err := checkMatrix("idct2", m); err != nil {
		return nil, err
	}
	return separable(m, IDCT)
}

func separable(m mat.Matrix, transform func([]float64) ([]float64, error)) (*mat.Dense, error) {
	rows, cols := m.Dims()
	out := mat.DenseCopyOf(m)

	for r := 0; r < rows; r++ {
		row, err := transform(out.RawRowView(r))
		if err != nil {
			return nil, err
		}
		out.SetRow(r, row)
	}

	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, out)
		transformed, err := transform(col)
		if err != nil {
			return nil, err
		}
		out.SetCol(c, transformed)
	}
	return out, nil
}
