package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnergyAndRMS(t *testing.T) {
	data := []float64{3, -4}
	assert.InDelta(t, 25.0, Energy(data), 1e-12)
	assert.InDelta(t, math.Sqrt(12.5), RMS(data), 1e-12)
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 25.0, ComplexEnergy([]complex128{complex(3, 4)}), 1e-12)
}

func TestMaxAbs(t *testing.T) {
	assert.Equal(t, 7.0, MaxAbs([]float64{1, -7, 3}))
	assert.Equal(t, 0.0, MaxAbs(nil))
}

func TestMinMaxNormalize(t *testing.T) {
	got := MinMaxNormalize([]float64{2, 4, 6})
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, got, 1e-12)

	constant := MinMaxNormalize([]float64{5, 5, 5})
	assert.Equal(t, []float64{0, 0, 0}, constant)

	unbounded := MinMaxNormalize([]float64{0, math.Inf(1)})
	assert.Equal(t, []float64{0, 0}, unbounded)
}

func TestFiniteChecks(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, AllFinite([]float64{1, math.Inf(1)}))
	assert.True(t, AllFinite([]float64{1, 2}))
}

func TestDifferences(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2.5, 3}
	assert.InDelta(t, 0.5, MaxAbsDiff(a, b), 1e-12)
	assert.True(t, math.IsInf(MaxAbsDiff(a, b[:2]), 1))
	assert.InDelta(t, 0.0, RelativeError(a, a), 1e-12)
	assert.InDelta(t, 0.5, RelativeError([]float64{0.5}, []float64{0}), 1e-12)
}

func TestMeanAndStd(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, 1.0, StandardDeviation([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, StandardDeviation([]float64{1}))
}
