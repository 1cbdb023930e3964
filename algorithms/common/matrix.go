package common

import "gonum.org/v1/gonum/mat"

// IsNilMatrix reports whether m is nil or wraps a nil *mat.Dense, either of
// which would panic on Dims
func IsNilMatrix(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)
	return ok && d == nil
}
