package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the engine, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(Energy(data) / float64(len(data)))
}

// Energy returns the sum of squares
func Energy(data []float64) float64 {
	return floats.Dot(data, data)
}

// ComplexEnergy returns the sum of squared magnitudes
func ComplexEnergy(data []complex128) float64 {
	sum := 0.0
	for _, c := range data {
		sum += real(c)*real(c) + imag(c)*imag(c)
	}
	return sum
}

// MaxAbs returns the largest absolute value, 0 for empty input
func MaxAbs(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// MinMaxNormalize normalizes data to [0, 1] range. Constant data, or data
// whose range is not finite, maps to all zeros.
func MinMaxNormalize(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}

	min := floats.Min(data)
	max := floats.Max(data)

	normalized := make([]float64, len(data))
	if span := max - min; span < 1e-12 || !IsFinite(span) {
		return normalized
	}

	for i, val := range data {
		normalized[i] = (val - min) / (max - min)
	}
	return normalized
}

// IsFinite reports whether v is neither NaN nor ±Inf
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every element is finite
func AllFinite(data []float64) bool {
	for _, v := range data {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest elementwise absolute difference. Slices of
// different length compare as +Inf.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, math.Inf(1))
}

// RelativeError returns ||a-b||₂ / ||b||₂, or the absolute distance when b is all zeros
func RelativeError(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	if len(a) == 0 {
		return 0
	}
	dist := floats.Distance(a, b, 2)
	ref := floats.Norm(b, 2)
	if ref == 0 {
		return dist
	}
	return dist / ref
}
