package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/axis"
	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/algorithms/filters"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
	"github.com/RyanBlaney/sonido-workbench/algorithms/synthesis"
)

// Wave is a composite signal over its two time axes: the dense plotting
// axis and the discrete sampling instants.
type Wave struct {
	ContinuousAxis []float64 `json:"continuous_axis"`
	Wave           []float64 `json:"wave"`
	DiscreteAxis   []float64 `json:"discrete_axis"`
	Samples        []float64 `json:"samples"`
	SampleRate     float64   `json:"sample_rate"`
}

// TransformPair holds a forward transform, its inverse and the frequency
// axis of the forward bins
type TransformPair struct {
	Domain        spectral.Domain  `json:"domain"`
	Input         []float64        `json:"-"`
	Forward       *spectral.Vector `json:"-"`
	Inverse       *spectral.Vector `json:"-"`
	FrequencyAxis []float64        `json:"frequency_axis"`
}

// TransformPair2D holds a 2-D forward transform and its inverse. Fourier
// forwards are frequency-shifted.
type TransformPair2D struct {
	Domain  spectral.Domain
	Input   *mat.Dense
	Forward *spectral.Grid
	Inverse *spectral.Grid
}

// ComputeWave synthesizes the signals on both time axes
func ComputeWave(sampling axis.Sampling, signals []*synthesis.Sine) (*Wave, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	for _, s := range signals {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	continuous, err := axis.Generate(axis.Time, sampling)
	if err != nil {
		return nil, err
	}
	discrete, err := axis.Generate(axis.DiscreteTime, sampling)
	if err != nil {
		return nil, err
	}

	return &Wave{
		ContinuousAxis: continuous,
		Wave:           synthesis.Synthesize(signals, continuous),
		DiscreteAxis:   discrete,
		Samples:        synthesis.Synthesize(signals, discrete),
		SampleRate:     sampling.SamplingFrequency,
	}, nil
}

// ComputeTransformPair runs the forward and inverse transform of the domain
// over samples taken at sampleRate. Fourier bins get the signed frequency
// axis and cosine bins the one-sided one.
func ComputeTransformPair(domain spectral.Domain, samples []float64, sampleRate float64) (*TransformPair, error) {
	return computeTransformPair(spectral.NewEngine(nil), domain, samples, sampleRate)
}

func computeTransformPair(engine *spectral.Engine, domain spectral.Domain, samples []float64, sampleRate float64) (*TransformPair, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, common.NewComputationError("transform pair", "no samples")
	}

	frequencies, err := frequencyAxis(domain, len(samples), sampleRate)
	if err != nil {
		return nil, err
	}

	forward, err := engine.Forward(domain, samples)
	if err != nil {
		return nil, err
	}
	inverse, err := engine.Inverse(forward)
	if err != nil {
		return nil, err
	}

	return &TransformPair{
		Domain:        domain,
		Input:         samples,
		Forward:       forward,
		Inverse:       inverse,
		FrequencyAxis: frequencies,
	}, nil
}

func frequencyAxis(domain spectral.Domain, n int, sampleRate float64) ([]float64, error) {
	if domain == spectral.Fourier {
		return axis.FrequencyAxis(n, sampleRate)
	}
	return axis.OneSidedFrequencyAxis(n, sampleRate)
}

// ApplyFilter zeroes the bins of a forward result rejected by spec. The
// forward result is not modified.
func ApplyFilter(domain spectral.Domain, forward *spectral.Vector, frequencies []float64, spec filters.Spec) (*spectral.Vector, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if forward == nil {
		return nil, common.NewValidationError("apply filter", "no %s transform to filter", domain)
	}
	if forward.Domain != domain {
		return nil, common.NewValidationError("apply filter", "transform is %s, filter asked for %s", forward.Domain, domain)
	}
	return filters.ApplyVector(forward, frequencies, spec)
}

// Compute2DTransformPair runs the 2-D forward and inverse transform of the
// domain over an image
func Compute2DTransformPair(domain spectral.Domain, image mat.Matrix) (*TransformPair2D, error) {
	return compute2DTransformPair(spectral.NewEngine(nil), domain, image)
}

func compute2DTransformPair(engine *spectral.Engine, domain spectral.Domain, image mat.Matrix) (*TransformPair2D, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}

	forward, err := engine.Forward2D(domain, image)
	if err != nil {
		return nil, err
	}
	inverse, err := engine.Inverse2D(forward)
	if err != nil {
		return nil, err
	}

	return &TransformPair2D{
		Domain:  domain,
		Input:   mat.DenseCopyOf(image),
		Forward: forward,
		Inverse: inverse,
	}, nil
}

// Apply2DFilter masks a 2-D forward result and returns the filtered copy
func Apply2DFilter(domain spectral.Domain, forward *spectral.Grid, spec filters.Spec2D) (*spectral.Grid, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if forward == nil {
		return nil, common.NewValidationError("apply 2-D filter", "no %s transform to filter", domain)
	}
	if forward.Domain != domain {
		return nil, common.NewValidationError("apply 2-D filter", "transform is %s, filter asked for %s", forward.Domain, domain)
	}
	return filters.ApplyGrid(forward, spec)
}

func checkDomain(domain spectral.Domain) error {
	if domain != spectral.Fourier && domain != spectral.Cosine {
		return common.NewValidationError("transform", "unknown domain %d", int(domain))
	}
	return nil
}
