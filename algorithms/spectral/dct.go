package spectral

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// DCT computes the orthonormal type-II discrete cosine transform.
//
// The N-point transform is taken from a 2N-point FFT of the even extension
// [x, reverse(x)], which keeps it O(N log N) for every length go-dsp
// supports.
func DCT(x []float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, common.NewComputationError("dct", "empty input")
	}

	ext := make([]complex128, 2*n)
	for i, v := range x {
		ext[i] = complex(v, 0)
		ext[2*n-1-i] = complex(v, 0)
	}
	spectrum := fft.FFT(ext)

	out := make([]float64, n)
	nf := float64(n)
	w0 := math.Sqrt(1 / nf)
	wk := math.Sqrt(2 / nf)
	for k := 0; k < n; k++ {
		twiddle := cmplx.Exp(complex(0, -math.Pi*float64(k)/(2*nf)))
		sum := real(twiddle*spectrum[k]) / 2
		if k == 0 {
			out[k] = w0 * sum
		} else {
			out[k] = wk * sum
		}
	}
	return out, nil
}

// IDCT computes the orthonormal type-III transform, the inverse of DCT
func IDCT(y []float64) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, common.NewComputationError("idct", "empty input")
	}

	nf := float64(n)
	w0 := math.Sqrt(1 / nf)
	wk := math.Sqrt(2 / nf)

	// Upper half stays zero so the 2N-point inverse sums only k < N
	z := make([]complex128, 2*n)
	for k, v := range y {
		w := wk
		if k == 0 {
			w = w0
		}
		twiddle := cmplx.Exp(complex(0, math.Pi*float64(k)/(2*nf)))
		z[k] = complex(w*v, 0) * twiddle
	}
	inv := fft.IFFT(z)

	out := make([]float64, n)
	scale := 2 * nf
	for i := range out {
		out[i] = scale * real(inv[i])
	}
	return out, nil
}
