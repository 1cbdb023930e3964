package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
)

var signedAxis = []float64{0, 1, 2, 3, -4, -3, -2, -1}

func TestZeroMaskPredicates(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []bool
	}{
		{"lowpass", NewLowPass(2), []bool{false, false, false, true, true, true, false, false}},
		{"highpass", NewHighPass(2), []bool{true, true, false, false, false, false, false, true}},
		{"bandpass", NewBandPass(1, 3), []bool{true, false, false, false, true, false, false, false}},
		{"bandstop", NewBandStop(1, 3), []bool{false, false, true, false, false, false, true, false}},
		{"none", Spec{}, make([]bool, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ZeroMask(signedAxis, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLowPassZeroCutoffKeepsOnlyDC(t *testing.T) {
	values := []complex128{5, 1 + 1i, 2, 3i, 4, 1, 1, 1}
	got, err := Apply(values, signedAxis, NewLowPass(0))
	require.NoError(t, err)

	assert.Equal(t, complex128(5), got[0])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, complex128(0), got[i])
	}

	// source spectrum untouched
	assert.Equal(t, 1+1i, values[1])
}

func TestBandFilterValidation(t *testing.T) {
	values := []float64{1, 2, 3}
	axis := []float64{0, 1, 2}

	_, err := Apply(values, axis, NewBandPass(10, 5))
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ZeroMask(axis, NewBandStop(3, 3))
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = Apply(values, axis, NewLowPass(-1))
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = Apply(values, axis, NewHighPass(math.NaN()))
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = Apply(values, axis[:2], NewLowPass(1))
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = Apply(values, axis, Spec{Kind: Kind(99)})
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestApplyVector(t *testing.T) {
	cosine := &spectral.Vector{Domain: spectral.Cosine, Real: []float64{4, 3, 2, 1}}
	oneSided := []float64{0, 1, 2, 3}

	got, err := ApplyVector(cosine, oneSided, NewHighPass(2))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 2, 1}, got.Real)
	assert.Equal(t, []float64{4, 3, 2, 1}, cosine.Real)
	assert.Equal(t, spectral.Cosine, got.Domain)

	_, err = ApplyVector(nil, oneSided, NewHighPass(2))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestParseKinds(t *testing.T) {
	k, err := ParseKind("band-pass")
	require.NoError(t, err)
	assert.Equal(t, BandPass, k)

	_, err = ParseKind("comb")
	assert.ErrorIs(t, err, common.ErrValidation)

	k2, err := ParseKind2D("gaussian-lowpass")
	require.NoError(t, err)
	assert.Equal(t, GaussianLowPass, k2)

	k2, err = ParseKind2D("ideal_highpass")
	require.NoError(t, err)
	assert.Equal(t, IdealHighPass, k2)
}

func TestGaussianMaskAtCentre(t *testing.T) {
	sigma := 3.0
	want := 1 / (2 * math.Pi * sigma * sigma)

	low, err := Mask2D(spectral.Fourier, NewGaussianLowPass(4, 4, sigma), 9, 9)
	require.NoError(t, err)
	assert.InDelta(t, want, low.At(4, 4), 1e-15)

	high, err := Mask2D(spectral.Fourier, NewGaussianHighPass(4, 4, sigma), 9, 9)
	require.NoError(t, err)
	assert.Equal(t, 0.0, high.At(4, 4))

	// low + high is the constant normalisation everywhere
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			assert.InDelta(t, want, low.At(r, c)+high.At(r, c), 1e-15)
		}
	}
}

func TestGaussianMaskUsesColumnAsX(t *testing.T) {
	mask, err := Mask2D(spectral.Cosine, NewGaussianLowPass(3, 0, 1), 2, 6)
	require.NoError(t, err)
	// peak sits in row 0, column 3
	assert.Greater(t, mask.At(0, 3), mask.At(0, 2))
	assert.Greater(t, mask.At(0, 3), mask.At(1, 3))
}

func TestIdealMaskFourierCentred(t *testing.T) {
	mask, err := Mask2D(spectral.Fourier, NewIdealLowPass(1, 2), 4, 6)
	require.NoError(t, err)

	// DC bin at (2, 3): only row 2, columns 2..4 survive
	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			want := 0.0
			if r == 2 && c >= 2 && c <= 4 {
				want = 1
			}
			assert.Equal(t, want, mask.At(r, c), "(%d,%d)", r, c)
		}
	}

	high, err := Mask2D(spectral.Fourier, NewIdealHighPass(1, 2), 4, 6)
	require.NoError(t, err)
	assert.Equal(t, 1.0, high.At(0, 0))
	assert.Equal(t, 0.0, high.At(2, 0))
	assert.Equal(t, 0.0, high.At(0, 3))
}

func TestIdealMaskCosineFromOrigin(t *testing.T) {
	low, err := Mask2D(spectral.Cosine, NewIdealLowPass(2, 3), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, low.At(1, 2))
	assert.Equal(t, 0.0, low.At(2, 0))
	assert.Equal(t, 0.0, low.At(0, 3))

	high, err := Mask2D(spectral.Cosine, NewIdealHighPass(2, 3), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, high.At(2, 3))
	assert.Equal(t, 0.0, high.At(3, 2))
}

func TestApplyGridCopiesAndFilters(t *testing.T) {
	complexGrid := &spectral.Grid{
		Domain: spectral.Fourier,
		Complex: [][]complex128{
			{1, 1, 1},
			{1, 9, 1},
			{1, 1, 1},
		},
	}

	got, err := ApplyGrid(complexGrid, NewIdealLowPass(1, 1))
	require.NoError(t, err)
	assert.Equal(t, complex128(9), got.Complex[1][1])
	assert.Equal(t, complex128(0), got.Complex[0][0])
	assert.Equal(t, complex128(1), complexGrid.Complex[0][0])

	realGrid := &spectral.Grid{Domain: spectral.Cosine, Real: mat.NewDense(2, 2, []float64{2, 2, 2, 2})}
	weighted, err := ApplyGrid(realGrid, NewGaussianLowPass(0, 0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 2/(2*math.Pi), weighted.Real.At(0, 0), 1e-12)
	assert.Equal(t, 2.0, realGrid.Real.At(0, 0))

	passthrough, err := ApplyGrid(realGrid, Spec2D{})
	require.NoError(t, err)
	assert.True(t, mat.Equal(realGrid.Real, passthrough.Real))
}

func TestSpec2DValidation(t *testing.T) {
	tests := []Spec2D{
		NewIdealLowPass(-1, 2),
		NewGaussianLowPass(0, 0, 0),
		NewGaussianHighPass(math.Inf(1), 0, 1),
		{Kind: Kind2D(42)},
	}
	for _, spec := range tests {
		_, err := Mask2D(spectral.Fourier, spec, 4, 4)
		assert.ErrorIs(t, err, common.ErrValidation, spec.Kind.String())
	}

	_, err := Mask2D(spectral.Fourier, NewIdealLowPass(1, 1), 0, 4)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ApplyGrid(nil, NewIdealLowPass(1, 1))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDCCenter(t *testing.T) {
	r, c := DCCenter(spectral.Fourier, 5, 8)
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)

	r, c = DCCenter(spectral.Cosine, 5, 8)
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, c)
}
