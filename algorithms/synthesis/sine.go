package synthesis

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// Sine is a single parametric sinusoid A·sin(2π·f·x + φ), phase in degrees.
// Fields may be edited in place; a Sine held by a Collection keeps its
// position when modified.
type Sine struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude" mapstructure:"amplitude"`
	Frequency float64 `json:"frequency" yaml:"frequency" mapstructure:"frequency"`
	Phase     float64 `json:"phase" yaml:"phase" mapstructure:"phase"`
}

// NewSine creates a validated sinusoid
func NewSine(amplitude, frequency, phase float64) (*Sine, error) {
	s := &Sine{Amplitude: amplitude, Frequency: frequency, Phase: phase}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate requires finite parameters and a non-negative frequency
func (s *Sine) Validate() error {
	return validateSine(s.Amplitude, s.Frequency, s.Phase)
}

func validateSine(amplitude, frequency, phase float64) error {
	if !common.IsFinite(amplitude) {
		return common.NewValidationError("signal", "amplitude must be finite, got %g", amplitude)
	}
	if !common.IsFinite(frequency) || frequency < 0 {
		return common.NewValidationError("signal", "frequency must be finite and non-negative, got %g", frequency)
	}
	if !common.IsFinite(phase) {
		return common.NewValidationError("signal", "phase must be finite, got %g", phase)
	}
	return nil
}

// Evaluate samples the sinusoid at every axis point. The axis is not modified.
func (s *Sine) Evaluate(axis []float64) []float64 {
	out := make([]float64, len(axis))
	phase := s.Phase * math.Pi / 180.0
	w := 2 * math.Pi * s.Frequency
	for i, x := range axis {
		out[i] = s.Amplitude * math.Sin(w*x+phase)
	}
	return out
}

// Label renders the formula, e.g. "2 sin(2π·5·t+30°)". Values are printed
// with the shortest representation that round-trips, and a zero phase is
// omitted.
func (s *Sine) Label() string {
	var b strings.Builder
	b.WriteString(formatValue(s.Amplitude))
	b.WriteString(" sin(2π·")
	b.WriteString(formatValue(s.Frequency))
	b.WriteString("·t")
	if s.Phase != 0 {
		if s.Phase > 0 {
			b.WriteByte('+')
		}
		b.WriteString(formatValue(s.Phase))
		b.WriteString("°")
	}
	b.WriteByte(')')
	return b.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Synthesize returns the elementwise sum of every signal over the axis.
// An empty signal list yields zeros of the axis length.
func Synthesize(signals []*Sine, axis []float64) []float64 {
	wave := make([]float64, len(axis))
	for _, s := range signals {
		floats.Add(wave, s.Evaluate(axis))
	}
	return wave
}
