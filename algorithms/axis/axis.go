package axis

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// Kind selects which axis Generate produces
type Kind int

const (
	// Time is the continuous plotting axis, spaced by Sampling.TimeStep
	Time Kind = iota
	// DiscreteTime holds one instant per sample over [0, N/fs)
	DiscreteTime
	// Frequency holds signed FFT bin frequencies
	Frequency
	// OneSidedFrequency holds k·fs/(2N), used for cosine spectra
	OneSidedFrequency
)

func (k Kind) String() string {
	switch k {
	case Time:
		return "time"
	case DiscreteTime:
		return "discrete_time"
	case Frequency:
		return "frequency"
	case OneSidedFrequency:
		return "one_sided_frequency"
	default:
		return fmt.Sprintf("axis.Kind(%d)", int(k))
	}
}

// MaxContinuousPoints bounds the continuous time axis. A time step so small
// that the axis would exceed it is rejected before anything is allocated.
const MaxContinuousPoints = 1 << 24

// Sampling describes how a composite signal is sampled
type Sampling struct {
	SamplesNumber     int     `json:"samples_number" yaml:"samples_number" mapstructure:"samples_number"`
	SamplingFrequency float64 `json:"sampling_frequency" yaml:"sampling_frequency" mapstructure:"sampling_frequency"`
	TimeStep          float64 `json:"time_step" yaml:"time_step" mapstructure:"time_step"`
}

// Validate checks that every field is positive and finite
func (s Sampling) Validate() error {
	if err := validateCount("sampling", s.SamplesNumber); err != nil {
		return err
	}
	if err := validatePositive("sampling", "sampling frequency", s.SamplingFrequency); err != nil {
		return err
	}
	return validatePositive("sampling", "time step", s.TimeStep)
}

// Duration returns the span covered by the discrete samples, N/fs
func (s Sampling) Duration() float64 {
	return float64(s.SamplesNumber) / s.SamplingFrequency
}

// Generate builds the axis of the given kind. Only the fields the kind uses
// are validated, so a zero TimeStep is fine for the frequency axes.
func Generate(kind Kind, s Sampling) ([]float64, error) {
	switch kind {
	case Time:
		return ContinuousTime(s.SamplesNumber, s.SamplingFrequency, s.TimeStep)
	case DiscreteTime:
		return DiscreteTimeAxis(s.SamplesNumber, s.SamplingFrequency)
	case Frequency:
		return FrequencyAxis(s.SamplesNumber, s.SamplingFrequency)
	case OneSidedFrequency:
		return OneSidedFrequencyAxis(s.SamplesNumber, s.SamplingFrequency)
	default:
		return nil, common.NewValidationError("axis", "unknown axis kind %d", int(kind))
	}
}

// ContinuousTime returns 0, dt, 2dt, ... strictly below (n-1)/fs.
// A single sample yields an empty axis.
func ContinuousTime(n int, fs, dt float64) ([]float64, error) {
	if err := validateCount("continuous time axis", n); err != nil {
		return nil, err
	}
	if err := validatePositive("continuous time axis", "sampling frequency", fs); err != nil {
		return nil, err
	}
	if err := validatePositive("continuous time axis", "time step", dt); err != nil {
		return nil, err
	}

	stop := float64(n-1) / fs
	points := math.Ceil(stop / dt)
	if !common.IsFinite(points) || points > MaxContinuousPoints {
		return nil, common.NewValidationError("continuous time axis",
			"time step %g over %g s needs more than %d points", dt, stop, MaxContinuousPoints)
	}
	count := int(points)
	// ceil can overshoot by one when stop/dt lands just above an integer
	for count > 0 && float64(count-1)*dt >= stop {
		count--
	}

	values := make([]float64, count)
	for i := range values {
		values[i] = float64(i) * dt
	}
	return values, nil
}

// DiscreteTimeAxis returns n instants k/fs covering [0, n/fs)
func DiscreteTimeAxis(n int, fs float64) ([]float64, error) {
	if err := validateCount("discrete time axis", n); err != nil {
		return nil, err
	}
	if err := validatePositive("discrete time axis", "sampling frequency", fs); err != nil {
		return nil, err
	}

	values := make([]float64, n)
	for k := range values {
		values[k] = float64(k) / fs
	}
	return values, nil
}

// FrequencyAxis returns the signed bin frequencies of an n-point FFT:
// k·fs/n for the first half, (k-n)·fs/n for the rest.
func FrequencyAxis(n int, fs float64) ([]float64, error) {
	if err := validateCount("frequency axis", n); err != nil {
		return nil, err
	}
	if err := validatePositive("frequency axis", "sampling frequency", fs); err != nil {
		return nil, err
	}

	values := make([]float64, n)
	step := fs / float64(n)
	for k := range values {
		if 2*k < n {
			values[k] = float64(k) * step
		} else {
			values[k] = float64(k-n) * step
		}
	}
	return values, nil
}

// OneSidedFrequencyAxis returns k·fs/(2n) for k = 0..n-1
func OneSidedFrequencyAxis(n int, fs float64) ([]float64, error) {
	if err := validateCount("one-sided frequency axis", n); err != nil {
		return nil, err
	}
	if err := validatePositive("one-sided frequency axis", "sampling frequency", fs); err != nil {
		return nil, err
	}

	values := make([]float64, n)
	step := fs / (2.0 * float64(n))
	for k := range values {
		values[k] = float64(k) * step
	}
	return values, nil
}

func validateCount(op string, n int) error {
	if n <= 0 {
		return common.NewValidationError(op, "samples number must be positive, got %d", n)
	}
	return nil
}

func validatePositive(op, name string, v float64) error {
	if !common.IsFinite(v) || v <= 0 {
		return common.NewValidationError(op, "%s must be positive and finite, got %g", name, v)
	}
	return nil
}
