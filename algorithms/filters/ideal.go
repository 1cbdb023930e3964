package filters

import (
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
)

// Kind selects a 1-D ideal filter
type Kind int

const (
	None Kind = iota
	LowPass
	HighPass
	BandPass
	BandStop
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	case BandPass:
		return "bandpass"
	case BandStop:
		return "bandstop"
	default:
		return fmt.Sprintf("filters.Kind(%d)", int(k))
	}
}

// ParseKind accepts the String form, with or without dashes
func ParseKind(s string) (Kind, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "none", "":
		return None, nil
	case "lowpass", "low":
		return LowPass, nil
	case "highpass", "high":
		return HighPass, nil
	case "bandpass":
		return BandPass, nil
	case "bandstop":
		return BandStop, nil
	default:
		return None, common.NewValidationError("filter", "unknown filter kind %q", s)
	}
}

// Spec describes a 1-D ideal filter. LowPass and HighPass read Cutoff;
// the band filters read Low and High.
type Spec struct {
	Kind   Kind    `json:"kind" yaml:"kind"`
	Cutoff float64 `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Low    float64 `json:"low,omitempty" yaml:"low,omitempty"`
	High   float64 `json:"high,omitempty" yaml:"high,omitempty"`
}

func NewLowPass(cutoff float64) Spec  { return Spec{Kind: LowPass, Cutoff: cutoff} }
func NewHighPass(cutoff float64) Spec { return Spec{Kind: HighPass, Cutoff: cutoff} }

func NewBandPass(low, high float64) Spec { return Spec{Kind: BandPass, Low: low, High: high} }
func NewBandStop(low, high float64) Spec { return Spec{Kind: BandStop, Low: low, High: high} }

// Validate checks the parameters the kind uses. Band filters need
// low < high; the bounds are never swapped.
func (s Spec) Validate() error {
	op := s.Kind.String()
	switch s.Kind {
	case None:
		return nil
	case LowPass, HighPass:
		return validateFrequency(op, "cutoff", s.Cutoff)
	case BandPass, BandStop:
		if err := validateFrequency(op, "low cutoff", s.Low); err != nil {
			return err
		}
		if err := validateFrequency(op, "high cutoff", s.High); err != nil {
			return err
		}
		if s.Low >= s.High {
			return common.NewValidationError(op, "low cutoff (%g) must be below high cutoff (%g)", s.Low, s.High)
		}
		return nil
	default:
		return common.NewValidationError("filter", "unknown filter kind %d", int(s.Kind))
	}
}

func validateFrequency(op, name string, v float64) error {
	if !common.IsFinite(v) || v < 0 {
		return common.NewValidationError(op, "%s must be finite and non-negative, got %g", name, v)
	}
	return nil
}

// Rejects reports whether a bin at frequency f is zeroed by the filter
func (s Spec) Rejects(f float64) bool {
	a := math.Abs(f)
	switch s.Kind {
	case LowPass:
		return a > s.Cutoff
	case HighPass:
		return a < s.Cutoff
	case BandPass:
		return a < s.Low || a > s.High
	case BandStop:
		return s.Low < a && a < s.High
	default:
		return false
	}
}

// ZeroMask marks the bins of the frequency axis that the filter zeroes
func ZeroMask(axis []float64, spec Spec) ([]bool, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	mask := make([]bool, len(axis))
	for i, f := range axis {
		mask[i] = spec.Rejects(f)
	}
	return mask, nil
}

// Apply returns a copy of values with the rejected bins set to zero. The
// axis must have one frequency per value.
func Apply[T float64 | complex128](values []T, axis []float64, spec Spec) ([]T, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(values) != len(axis) {
		return nil, common.NewValidationError(spec.Kind.String(),
			"frequency axis has %d bins, spectrum has %d", len(axis), len(values))
	}

	out := make([]T, len(values))
	copy(out, values)
	for i, f := range axis {
		if spec.Rejects(f) {
			out[i] = 0
		}
	}
	return out, nil
}

// ApplyVector filters a 1-D transform result and returns a new vector
func ApplyVector(v *spectral.Vector, axis []float64, spec Spec) (*spectral.Vector, error) {
	if v == nil {
		return nil, common.NewValidationError(spec.Kind.String(), "no spectrum to filter")
	}

	out := &spectral.Vector{Domain: v.Domain}
	var err error
	if v.Complex != nil {
		out.Complex, err = Apply(v.Complex, axis, spec)
	} else {
		out.Real, err = Apply(v.Real, axis, spec)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
