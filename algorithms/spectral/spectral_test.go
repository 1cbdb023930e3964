package spectral

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/internal/testutil"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

func scenarioWave() []float64 {
	out := make([]float64, 8)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / 8)
	}
	return out
}

func TestFFTRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8, 17, 64, 100} {
		x := testutil.RandomSlice(int64(n), n)

		X, err := FFTReal(x)
		require.NoError(t, err)
		require.Len(t, X, n)

		back, err := IFFT(X)
		require.NoError(t, err)
		testutil.RequireSliceNearlyEqual(t, RealPart(back), x, 1e-9)
	}
}

func TestFFTComplexRoundTrip(t *testing.T) {
	x := []complex128{1 + 2i, -3i, 0.5, 4 - 1i, 2 + 2i}
	X, err := FFT(x)
	require.NoError(t, err)
	back, err := IFFT(X)
	require.NoError(t, err)
	testutil.RequireComplexNearlyEqual(t, back, x, 1e-9)

	// input untouched
	assert.Equal(t, 1+2i, x[0])
}

func TestFFTScenarioDominantBins(t *testing.T) {
	X, err := FFTReal(scenarioWave())
	require.NoError(t, err)

	mags := Magnitude(X)
	for k, m := range mags {
		if k == 1 || k == 7 {
			assert.InDelta(t, 4.0, m, 1e-9, "bin %d", k)
		} else {
			assert.InDelta(t, 0.0, m, 1e-9, "bin %d", k)
		}
	}

	freqs := []float64{0, 1, 2, 3, -4, -3, -2, -1}
	bins := DominantBins(mags, freqs, 4, 0.5)
	require.Len(t, bins, 2)
	got := []float64{bins[0].Frequency, bins[1].Frequency}
	assert.ElementsMatch(t, []float64{1, -1}, got)
	assert.ElementsMatch(t, []int{1, 7}, []int{bins[0].Index, bins[1].Index})
}

func TestEmptyInputIsComputationError(t *testing.T) {
	_, err := FFT(nil)
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = FFTReal([]float64{})
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = IFFT(nil)
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = DCT(nil)
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = IDCT(nil)
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = FFT2(&mat.Dense{})
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = IFFT2([][]complex128{{1, 2}, {3}})
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = DCT2(nil)
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = FFT2((*mat.Dense)(nil))
	assert.ErrorIs(t, err, common.ErrComputation)
	_, err = NewEngine(nil).Forward2D(Cosine, (*mat.Dense)(nil))
	assert.ErrorIs(t, err, common.ErrComputation)
}

func TestDCTMatchesDirectSum(t *testing.T) {
	x := []float64{1, 2, 3, 4, -1}
	n := len(x)

	got, err := DCT(x)
	require.NoError(t, err)

	for k := 0; k < n; k++ {
		sum := 0.0
		for i, v := range x {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		w := math.Sqrt(2 / float64(n))
		if k == 0 {
			w = math.Sqrt(1 / float64(n))
		}
		assert.InDelta(t, w*sum, got[k], 1e-9, "k=%d", k)
	}
}

func TestDCTRoundTripAndEnergy(t *testing.T) {
	for _, n := range []int{1, 2, 3, 8, 31, 64} {
		x := testutil.RandomSlice(int64(100+n), n)

		X, err := DCT(x)
		require.NoError(t, err)
		assert.InDelta(t, common.Energy(x), common.Energy(X), 1e-9, "n=%d", n)

		back, err := IDCT(X)
		require.NoError(t, err)
		testutil.RequireSliceNearlyEqual(t, back, x, 1e-9)
	}
}

func TestDCTConstantSignal(t *testing.T) {
	X, err := DCT([]float64{2, 2, 2, 2})
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, X, []float64{4, 0, 0, 0}, 1e-12)
}

func TestShiftUnshiftInverse(t *testing.T) {
	for _, dims := range [][2]int{{4, 4}, {5, 5}, {3, 6}, {1, 7}} {
		rows, cols := dims[0], dims[1]
		x := make([][]int, rows)
		for r := range x {
			x[r] = make([]int, cols)
			for c := range x[r] {
				x[r][c] = r*cols + c
			}
		}

		shifted := Shift2(x)
		// zero index moves to the centre
		assert.Equal(t, 0, shifted[rows/2][cols/2])
		assert.Equal(t, x, Unshift2(shifted))
	}
	assert.Empty(t, Shift2([][]float64{}))
}

func TestFFT2CentresDC(t *testing.T) {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, 1)
		}
	}

	X, err := FFT2(m)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, cmplx.Abs(X[2][2]), 1e-9)
	assert.InDelta(t, 0.0, cmplx.Abs(X[0][0]), 1e-9)
}

func TestFFT2RoundTrip(t *testing.T) {
	for _, dims := range [][2]int{{8, 8}, {5, 7}, {1, 3}} {
		m := testutil.RandomMatrix(7, dims[0], dims[1])

		X, err := FFT2(m)
		require.NoError(t, err)

		back, err := IFFT2(X)
		require.NoError(t, err)
		testutil.RequireMatrixNearlyEqual(t, RealGrid(back), m, 1e-8)

		for _, row := range back {
			for _, v := range row {
				assert.InDelta(t, 0.0, imag(v), 1e-8)
			}
		}
	}
}

func TestDCT2RoundTrip(t *testing.T) {
	m := testutil.RandomMatrix(11, 6, 9)

	X, err := DCT2(m)
	require.NoError(t, err)

	// orthonormal: energy preserved
	assert.InDelta(t, mat.Norm(m, 2), mat.Norm(X, 2), 1e-6)
	assert.InDelta(t, floats.Sum(m.RawMatrix().Data)/math.Sqrt(54), X.At(0, 0), 1e-8)

	back, err := IDCT2(X)
	require.NoError(t, err)
	testutil.RequireMatrixNearlyEqual(t, back, m, 1e-8)
}

func TestEngineDispatch(t *testing.T) {
	engine := NewEngine(&logging.NoOpLogger{})
	wave := scenarioWave()

	for _, domain := range Domains() {
		forward, err := engine.Forward(domain, wave)
		require.NoError(t, err)
		assert.Equal(t, domain, forward.Domain)
		assert.Equal(t, len(wave), forward.Len())

		inverse, err := engine.Inverse(forward)
		require.NoError(t, err)
		testutil.RequireSliceNearlyEqual(t, inverse.Values(), wave, 1e-9)
	}

	fromReal, err := engine.Run(OpFFT, &Vector{Domain: Fourier, Real: wave})
	require.NoError(t, err)
	fromComplex, err := engine.Run(OpFFT, &Vector{Domain: Fourier, Complex: toComplex(wave)})
	require.NoError(t, err)
	assert.Nil(t, fromReal.Real)
	testutil.RequireComplexNearlyEqual(t, fromReal.Complex, fromComplex.Complex, 1e-12)

	_, err = engine.Run(OpFFT2D, &Vector{Real: wave})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = engine.Run2D(OpDCT, &Grid{})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = engine.Forward(Fourier, nil)
	assert.ErrorIs(t, err, common.ErrComputation)
}

func TestEngineDispatch2D(t *testing.T) {
	engine := NewEngine(&logging.NoOpLogger{})
	image := testutil.RandomMatrix(3, 8, 8)

	for _, domain := range Domains() {
		forward, err := engine.Forward2D(domain, image)
		require.NoError(t, err)
		rows, cols := forward.Dims()
		assert.Equal(t, 8, rows)
		assert.Equal(t, 8, cols)

		inverse, err := engine.Inverse2D(forward)
		require.NoError(t, err)
		testutil.RequireMatrixNearlyEqual(t, inverse.Values(), image, 1e-8)
	}

	_, err := engine.Run2D(OpIFFT2D, &Grid{Real: image})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestOpHelpers(t *testing.T) {
	assert.Equal(t, OpFFT, ForwardOp(Fourier, false))
	assert.Equal(t, OpDCT2D, ForwardOp(Cosine, true))
	assert.Equal(t, OpIFFT2D, InverseOp(OpFFT2D))
	assert.Equal(t, OpIDCT, InverseOp(OpDCT))
	assert.True(t, OpIDCT2D.Is2D())
	assert.False(t, OpIFFT.Is2D())
	assert.Equal(t, "dct2", OpDCT2D.String())

	d, err := ParseDomain("dct")
	require.NoError(t, err)
	assert.Equal(t, Cosine, d)
	_, err = ParseDomain("wavelet")
	assert.Error(t, err)
}

func TestVectorAndGridHelpers(t *testing.T) {
	v := &Vector{Domain: Cosine, Real: []float64{-2, 3}}
	assert.Equal(t, []float64{2, 3}, v.Magnitude())

	c := v.Clone()
	c.Real[0] = 9
	assert.Equal(t, -2.0, v.Real[0])

	image := mat.NewDense(2, 2, []float64{1, -2, 3, 4})
	g := NewImageGrid(Fourier, image)
	assert.Nil(t, g.Complex)
	assert.Equal(t, 2.0, g.Magnitude().At(0, 1))
	image.Set(1, 0, 0)
	assert.Equal(t, 3.0, g.Real.At(1, 0))

	X, err := NewEngine(&logging.NoOpLogger{}).Run2D(OpFFT2D, g)
	require.NoError(t, err)
	gc := X.Clone()
	gc.Complex[0][0] = 0
	assert.NotEqual(t, complex(0, 0), X.Complex[0][0])

	assert.True(t, IsZero([]float64{0, 1e-15, -1e-15}, 1e-12))
	assert.False(t, IsZero([]float64{0, 1e-3}, 1e-12))
	assert.Empty(t, DominantBins([]float64{0, 0}, nil, 3, 0))

	bins := DominantBins([]float64{1, 5, 3, 5}, []float64{0, 10, 20, 30}, 3, 0)
	require.Len(t, bins, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{bins[0].Index, bins[1].Index, bins[2].Index})
	assert.Equal(t, 30.0, bins[1].Frequency)
}

func TestDescribe(t *testing.T) {
	t.Run("single tone", func(t *testing.T) {
		mags := []float64{0, 0, 4, 0, 0, 0, 4, 0}
		freqs := []float64{0, 1, 2, 3, -4, -3, -2, -1}

		d := Describe(mags, freqs)
		assert.InDelta(t, 2.0, d.Centroid, 1e-12)
		assert.InDelta(t, 0.0, d.Bandwidth, 1e-12)
		assert.Equal(t, 2.0, d.Rolloff)
		assert.Less(t, d.Flatness, 1e-3)
		assert.InDelta(t, 2.0, d.Crest, 1e-12)
	})

	t.Run("two equal tones", func(t *testing.T) {
		d := Describe([]float64{0, 1, 0, 1}, []float64{0, 1, 2, 3})
		assert.InDelta(t, 2.0, d.Centroid, 1e-12)
		assert.InDelta(t, 1.0, d.Bandwidth, 1e-12)
		assert.Equal(t, 3.0, d.Rolloff)
	})

	t.Run("flat spectrum", func(t *testing.T) {
		d := Describe([]float64{3, 3, 3, 3}, []float64{0, 1, 2, 3})
		assert.InDelta(t, 1.0, d.Flatness, 1e-12)
		assert.InDelta(t, 1.0, d.Crest, 1e-12)
	})

	t.Run("silence and mismatched axis", func(t *testing.T) {
		assert.Equal(t, Descriptors{}, Describe([]float64{0, 0}, []float64{0, 1}))
		assert.Equal(t, Descriptors{}, Describe([]float64{1, 2}, []float64{0}))
		assert.Zero(t, Rolloff(nil, nil, DefaultRolloffThreshold))
		assert.Zero(t, Flatness(nil))
		assert.Zero(t, Crest([]float64{0, 0}))
	})
}
