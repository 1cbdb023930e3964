package windowing

import (
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// Type selects a taper applied to samples before a 1-D transform
type Type int

const (
	Rectangular Type = iota
	Hann
	Hamming
	Blackman
	Bartlett
	Welch
)

func (t Type) String() string {
	switch t {
	case Rectangular:
		return "rectangular"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Blackman:
		return "blackman"
	case Bartlett:
		return "bartlett"
	case Welch:
		return "welch"
	default:
		return fmt.Sprintf("windowing.Type(%d)", int(t))
	}
}

// ParseType maps a config value to a Type; empty means rectangular
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangular", "boxcar", "none", "":
		return Rectangular, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "blackman":
		return Blackman, nil
	case "bartlett", "triangular":
		return Bartlett, nil
	case "welch":
		return Welch, nil
	default:
		return Rectangular, common.NewValidationError("window", "unknown window type %q", s)
	}
}

// Window holds precomputed coefficients for one size
type Window struct {
	typ          Type
	size         int
	symmetric    bool
	coefficients []float64
}

// NewWindow creates a window. Periodic windows (symmetric = false) suit
// spectral analysis of a frame that repeats.
func NewWindow(typ Type, size int, symmetric bool) (*Window, error) {
	if size <= 0 {
		return nil, common.NewValidationError("window", "window size must be positive, got %d", size)
	}
	if typ < Rectangular || typ > Welch {
		return nil, common.NewValidationError("window", "unknown window type %d", int(typ))
	}

	w := &Window{
		typ:       typ,
		size:      size,
		symmetric: symmetric,
	}
	w.generate()
	return w, nil
}

func (w *Window) generate() {
	w.coefficients = make([]float64, w.size)

	if w.size == 1 {
		w.coefficients[0] = 1.0
		return
	}

	denominator := float64(w.size)
	if w.symmetric {
		denominator = float64(w.size - 1)
	}

	for i := range w.size {
		x := float64(i) / denominator
		switch w.typ {
		case Rectangular:
			w.coefficients[i] = 1.0
		case Hann:
			w.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*x))
		case Hamming:
			w.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*x)
		case Blackman:
			w.coefficients[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
		case Bartlett:
			w.coefficients[i] = 1.0 - math.Abs(2*x-1)
		case Welch:
			u := 2*x - 1
			w.coefficients[i] = 1.0 - u*u
		}
	}
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.size {
		return nil, common.NewValidationError("window", "signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	windowed := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		windowed[i] = signal[i] * w.coefficients[i]
	}
	return windowed, nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetType returns the window type
func (w *Window) GetType() Type {
	return w.typ
}

// CoherentGain is the mean coefficient. Dividing a windowed spectrum by it
// restores the amplitude of a tone.
func (w *Window) CoherentGain() float64 {
	sum := 0.0
	for _, c := range w.coefficients {
		sum += c
	}
	return sum / float64(w.size)
}
