package spectral

import (
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// FFT computes the unnormalized discrete Fourier transform using
// mjibson/go-dsp, which handles any length (Bluestein for non powers of 2).
func FFT(x []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, common.NewComputationError("fft", "empty input")
	}

	in := make([]complex128, len(x))
	copy(in, x)
	return fft.FFT(in), nil
}

// FFTReal computes the FFT of real samples
func FFTReal(x []float64) ([]complex128, error) {
	if len(x) == 0 {
		return nil, common.NewComputationError("fft", "empty input")
	}
	return fft.FFTReal(x), nil
}

// IFFT computes the inverse FFT, scaled by 1/N so that IFFT(FFT(x)) == x
func IFFT(x []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, common.NewComputationError("ifft", "empty input")
	}
	return fft.IFFT(x), nil
}

func toComplex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}
