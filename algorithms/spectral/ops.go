package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

// Op names one transform of the engine
type Op int

const (
	OpFFT Op = iota
	OpIFFT
	OpDCT
	OpIDCT
	OpFFT2D
	OpIFFT2D
	OpDCT2D
	OpIDCT2D
)

func (o Op) String() string {
	switch o {
	case OpFFT:
		return "fft"
	case OpIFFT:
		return "ifft"
	case OpDCT:
		return "dct"
	case OpIDCT:
		return "idct"
	case OpFFT2D:
		return "fft2"
	case OpIFFT2D:
		return "ifft2"
	case OpDCT2D:
		return "dct2"
	case OpIDCT2D:
		return "idct2"
	default:
		return fmt.Sprintf("spectral.Op(%d)", int(o))
	}
}

// Is2D reports whether the op works on grids
func (o Op) Is2D() bool {
	return o >= OpFFT2D && o <= OpIDCT2D
}

// ForwardOp returns the forward 1-D or 2-D op of a domain
func ForwardOp(domain Domain, twoD bool) Op {
	switch {
	case domain == Fourier && !twoD:
		return OpFFT
	case domain == Fourier:
		return OpFFT2D
	case !twoD:
		return OpDCT
	default:
		return OpDCT2D
	}
}

// InverseOp returns the inverse of a forward op
func InverseOp(op Op) Op {
	switch op {
	case OpFFT:
		return OpIFFT
	case OpDCT:
		return OpIDCT
	case OpFFT2D:
		return OpIFFT2D
	case OpDCT2D:
		return OpIDCT2D
	default:
		return op
	}
}

// Engine dispatches transform ops and logs each run
type Engine struct {
	logger logging.Logger
}

// NewEngine creates a transform engine; a nil logger falls back to the
// global one
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.WithFields(logging.Fields{
			"component": "transform_engine",
		})
	}
	return &Engine{logger: logger}
}

// Run applies a 1-D op. The FFT takes real samples through FFTReal and
// complex input as is; cosine ops read the real-valued view.
func (e *Engine) Run(op Op, in *Vector) (*Vector, error) {
	if in == nil {
		return nil, common.NewComputationError(op.String(), "nil input")
	}

	var out *Vector
	var err error

	switch op {
	case OpFFT:
		var X []complex128
		if in.Complex == nil {
			X, err = FFTReal(in.Real)
		} else {
			X, err = FFT(in.Complex)
		}
		out = &Vector{Domain: Fourier, Complex: X}
	case OpIFFT:
		var x []complex128
		x, err = IFFT(in.complexValues())
		out = &Vector{Domain: Fourier, Complex: x}
	case OpDCT:
		var X []float64
		X, err = DCT(in.Values())
		out = &Vector{Domain: Cosine, Real: X}
	case OpIDCT:
		var x []float64
		x, err = IDCT(in.Values())
		out = &Vector{Domain: Cosine, Real: x}
	default:
		return nil, common.NewValidationError("transform", "%s is not a 1-D op", op)
	}

	if err != nil {
		e.logger.Warn("transform rejected", logging.Fields{
			"op":     op.String(),
			"length": in.Len(),
			"error":  err.Error(),
		})
		return nil, err
	}

	e.logger.Debug("transform computed", logging.Fields{
		"op":     op.String(),
		"length": out.Len(),
	})
	return out, nil
}

// Run2D applies a 2-D op. Fourier forward output is frequency-shifted and
// the Fourier inverse expects shifted input.
func (e *Engine) Run2D(op Op, in *Grid) (*Grid, error) {
	if in == nil {
		return nil, common.NewComputationError(op.String(), "nil input")
	}

	var out *Grid
	var err error

	switch op {
	case OpFFT2D:
		var X [][]complex128
		if in.Complex != nil {
			X, err = FFT2Complex(in.Complex)
		} else if in.Real != nil {
			X, err = FFT2(in.Real)
		} else {
			err = common.NewComputationError("fft2", "empty input")
		}
		out = &Grid{Domain: Fourier, Complex: X}
	case OpIFFT2D:
		if in.Complex == nil {
			return nil, common.NewValidationError("ifft2", "input has no complex data")
		}
		var x [][]complex128
		x, err = IFFT2(in.Complex)
		out = &Grid{Domain: Fourier, Complex: x}
	case OpDCT2D, OpIDCT2D:
		if in.Complex == nil && in.Real == nil {
			err = common.NewComputationError(op.String(), "empty input")
			break
		}
		var m *mat.Dense
		if op == OpDCT2D {
			m, err = DCT2(in.Values())
		} else {
			m, err = IDCT2(in.Values())
		}
		out = &Grid{Domain: Cosine, Real: m}
	default:
		return nil, common.NewValidationError("transform", "%s is not a 2-D op", op)
	}

	if err != nil {
		e.logger.Warn("2-D transform rejected", logging.Fields{
			"op":    op.String(),
			"error": err.Error(),
		})
		return nil, err
	}

	rows, cols := out.Dims()
	e.logger.Debug("2-D transform computed", logging.Fields{
		"op":   op.String(),
		"rows": rows,
		"cols": cols,
	})
	return out, nil
}

// Forward transforms real samples in the given domain
func (e *Engine) Forward(domain Domain, samples []float64) (*Vector, error) {
	return e.Run(ForwardOp(domain, false), NewSignalVector(domain, samples))
}

// Inverse inverts a forward result of the same domain
func (e *Engine) Inverse(spectrum *Vector) (*Vector, error) {
	if spectrum == nil {
		return nil, common.NewComputationError("inverse", "nil input")
	}
	return e.Run(InverseOp(ForwardOp(spectrum.Domain, false)), spectrum)
}

// Forward2D transforms a real image in the given domain
func (e *Engine) Forward2D(domain Domain, image mat.Matrix) (*Grid, error) {
	op := ForwardOp(domain, true)
	if err := checkMatrix(op.String(), image); err != nil {
		return nil, err
	}
	return e.Run2D(op, NewImageGrid(domain, image))
}

// Inverse2D inverts a 2-D forward result of the same domain
func (e *Engine) Inverse2D(spectrum *Grid) (*Grid, error) {
	if spectrum == nil {
		return nil, common.NewComputationError("inverse2d", "nil input")
	}
	return e.Run2D(InverseOp(ForwardOp(spectrum.Domain, true)), spectrum)
}

func (v *Vector) complexValues() []complex128 {
	if v.Complex != nil {
		return v.Complex
	}
	return toComplex(v.Real)
}
