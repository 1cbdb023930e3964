package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Domain selects the transform family
type Domain int

const (
	Fourier Domain = iota
	Cosine
)

func (d Domain) String() string {
	switch d {
	case Fourier:
		return "fourier"
	case Cosine:
		return "cosine"
	default:
		return fmt.Sprintf("spectral.Domain(%d)", int(d))
	}
}

// ParseDomain accepts "fourier"/"fft" and "cosine"/"dct"
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "fourier", "fft":
		return Fourier, nil
	case "cosine", "dct":
		return Cosine, nil
	default:
		return 0, fmt.Errorf("unknown transform domain %q", s)
	}
}

// Domains lists every supported domain in display order
func Domains() []Domain {
	return []Domain{Fourier, Cosine}
}

// Vector is a 1-D array in or out of a transform. Fourier spectra live in
// Complex, cosine data and real samples in Real; exactly one of them is set.
type Vector struct {
	Domain  Domain       `json:"domain"`
	Complex []complex128 `json:"-"`
	Real    []float64    `json:"real,omitempty"`
}

// NewSignalVector wraps a copy of real time-domain samples for the given
// domain
func NewSignalVector(domain Domain, samples []float64) *Vector {
	out := make([]float64, len(samples))
	copy(out, samples)
	return &Vector{Domain: domain, Real: out}
}

// Len returns the number of bins or samples
func (v *Vector) Len() int {
	if v.Complex != nil {
		return len(v.Complex)
	}
	return len(v.Real)
}

// Values returns the real-valued view: the real part of Fourier data or
// the cosine values themselves. Always a fresh slice.
func (v *Vector) Values() []float64 {
	if v.Complex != nil {
		return RealPart(v.Complex)
	}
	out := make([]float64, len(v.Real))
	copy(out, v.Real)
	return out
}

// Magnitude returns |X| per bin
func (v *Vector) Magnitude() []float64 {
	if v.Complex != nil {
		return Magnitude(v.Complex)
	}
	return AbsReal(v.Real)
}

// Clone returns a deep copy
func (v *Vector) Clone() *Vector {
	out := &Vector{Domain: v.Domain}
	if v.Complex != nil {
		out.Complex = make([]complex128, len(v.Complex))
		copy(out.Complex, v.Complex)
	}
	if v.Real != nil {
		out.Real = make([]float64, len(v.Real))
		copy(out.Real, v.Real)
	}
	return out
}

// Grid is a 2-D array in or out of a transform. Fourier data lives in
// Complex (row-major, frequency-shifted when it is a spectrum), cosine data
// in Real.
type Grid struct {
	Domain  Domain
	Complex [][]complex128
	Real    *mat.Dense
}

// NewImageGrid wraps a copy of a real image for the given domain
func NewImageGrid(domain Domain, m mat.Matrix) *Grid {
	return &Grid{Domain: domain, Real: mat.DenseCopyOf(m)}
}

// Dims returns rows and columns
func (g *Grid) Dims() (int, int) {
	if g.Complex != nil {
		if len(g.Complex) == 0 {
			return 0, 0
		}
		return len(g.Complex), len(g.Complex[0])
	}
	if g.Real == nil {
		return 0, 0
	}
	return g.Real.Dims()
}

// Values returns the real part of Fourier data or a copy of cosine data
func (g *Grid) Values() *mat.Dense {
	if g.Complex != nil {
		return RealGrid(g.Complex)
	}
	return mat.DenseCopyOf(g.Real)
}

// Magnitude returns |X| per element
func (g *Grid) Magnitude() *mat.Dense {
	if g.Complex != nil {
		return MagnitudeGrid(g.Complex)
	}
	rows, cols := g.Real.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return -v
		}
		return v
	}, g.Real)
	return out
}

// Clone returns a deep copy
func (g *Grid) Clone() *Grid {
	out := &Grid{Domain: g.Domain}
	if g.Complex != nil {
		out.Complex = make([][]complex128, len(g.Complex))
		for r, row := range g.Complex {
			out.Complex[r] = make([]complex128, len(row))
			copy(out.Complex[r], row)
		}
	}
	if g.Real != nil {
		out.Real = mat.DenseCopyOf(g.Real)
	}
	return out
}
