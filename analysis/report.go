package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
)

// Report summarizes a computed session for display or export
type Report struct {
	Source     string             `json:"source" yaml:"source"`
	State      string             `json:"state" yaml:"state"`
	Signals    []string           `json:"signals,omitempty" yaml:"signals,omitempty"`
	Gratings   []string           `json:"gratings,omitempty" yaml:"gratings,omitempty"`
	Samples    int                `json:"samples,omitempty" yaml:"samples,omitempty"`
	SampleRate float64            `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	PlotPoints int                `json:"plot_points,omitempty" yaml:"plot_points,omitempty"`
	Peak       float64            `json:"peak,omitempty" yaml:"peak,omitempty"`
	RMS        float64            `json:"rms,omitempty" yaml:"rms,omitempty"`
	Mean       float64            `json:"mean,omitempty" yaml:"mean,omitempty"`
	StdDev     float64            `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	Window     string             `json:"window,omitempty" yaml:"window,omitempty"`
	WindowGain float64            `json:"window_gain,omitempty" yaml:"window_gain,omitempty"`
	SilentWave bool               `json:"silent_wave,omitempty" yaml:"silent_wave,omitempty"`
	Transforms []TransformSummary `json:"transforms,omitempty" yaml:"transforms,omitempty"`
	Images     []ImageSummary     `json:"images,omitempty" yaml:"images,omitempty"`
}

// TransformSummary describes one 1-D transform pair. Dominant bin
// magnitudes are divided by the window's coherent gain.
type TransformSummary struct {
	Domain         string               `json:"domain" yaml:"domain"`
	Bins           int                  `json:"bins" yaml:"bins"`
	Energy         float64              `json:"energy" yaml:"energy"`
	RoundTripError float64              `json:"round_trip_error" yaml:"round_trip_error"`
	Dominant       []spectral.Bin       `json:"dominant" yaml:"dominant"`
	Descriptors    spectral.Descriptors `json:"descriptors" yaml:"descriptors"`
	Filtered       *FilterSummary       `json:"filtered,omitempty" yaml:"filtered,omitempty"`
}

// FilterSummary describes a filtered 1-D pair relative to its input
type FilterSummary struct {
	ZeroedBins          int                  `json:"zeroed_bins" yaml:"zeroed_bins"`
	Energy              float64              `json:"energy" yaml:"energy"`
	ReconstructionError float64              `json:"reconstruction_error" yaml:"reconstruction_error"`
	Dominant            []spectral.Bin       `json:"dominant" yaml:"dominant"`
	Descriptors         spectral.Descriptors `json:"descriptors" yaml:"descriptors"`
}

// ImageSummary describes one 2-D transform pair
type ImageSummary struct {
	Domain              string   `json:"domain" yaml:"domain"`
	Rows                int      `json:"rows" yaml:"rows"`
	Cols                int      `json:"cols" yaml:"cols"`
	Energy              float64  `json:"energy" yaml:"energy"`
	RoundTripError      float64  `json:"round_trip_error" yaml:"round_trip_error"`
	FilteredEnergy      *float64 `json:"filtered_energy,omitempty" yaml:"filtered_energy,omitempty"`
	ReconstructionError *float64 `json:"reconstruction_error,omitempty" yaml:"reconstruction_error,omitempty"`
}

// dominantThreshold drops bins weaker than this share of the strongest one
const dominantThreshold = 0.05

// NewReport summarizes the computed arrays of the session. topBins bounds
// the dominant bins listed per transform.
func NewReport(s *Session, topBins int) (*Report, error) {
	if s.State() < Computed {
		return nil, s.unavailable("report")
	}

	r := &Report{
		Source:  s.Source().String(),
		State:   s.State().String(),
		Signals: s.Labels(),
	}
	for _, g := range s.Gratings() {
		r.Gratings = append(r.Gratings, g.Label())
	}

	if wave, err := s.Wave(); err == nil {
		r.Samples = len(wave.Samples)
		r.SampleRate = wave.SampleRate
		r.PlotPoints = len(wave.ContinuousAxis)
		r.Peak = common.MaxAbs(wave.Samples)
		r.RMS = common.RMS(wave.Samples)
		r.Mean = common.Mean(wave.Samples)
		r.StdDev = common.StandardDeviation(wave.Samples)
		r.SilentWave = spectral.IsZero(wave.Samples, 0)
	}

	gain := 1.0
	if w, err := s.Window(); err == nil {
		r.Window = w.GetType().String()
		r.WindowGain = w.CoherentGain()
		if r.WindowGain > 0 {
			gain = r.WindowGain
		}
	}

	for _, domain := range spectral.Domains() {
		if pair, err := s.Pair(domain); err == nil {
			magnitudes := pair.Forward.Magnitude()
			summary := TransformSummary{
				Domain:         domain.String(),
				Bins:           pair.Forward.Len(),
				Energy:         vectorEnergy(pair.Forward),
				RoundTripError: common.MaxAbsDiff(pair.Inverse.Values(), pair.Input),
				Dominant:       correctGain(spectral.DominantBins(magnitudes, pair.FrequencyAxis, topBins, dominantThreshold), gain),
				Descriptors:    spectral.Describe(magnitudes, pair.FrequencyAxis),
			}
			if filtered, err := s.Filtered(domain); err == nil {
				filteredMagnitudes := filtered.Forward.Magnitude()
				summary.Filtered = &FilterSummary{
					ZeroedBins:          countZeroed(pair.Forward, filtered.Forward),
					Energy:              vectorEnergy(filtered.Forward),
					ReconstructionError: common.RelativeError(filtered.Inverse.Values(), pair.Input),
					Dominant:            correctGain(spectral.DominantBins(filteredMagnitudes, filtered.FrequencyAxis, topBins, dominantThreshold), gain),
					Descriptors:         spectral.Describe(filteredMagnitudes, filtered.FrequencyAxis),
				}
			}
			r.Transforms = append(r.Transforms, summary)
		}

		if pair, err := s.Pair2D(domain); err == nil {
			rows, cols := pair.Forward.Dims()
			summary := ImageSummary{
				Domain:         domain.String(),
				Rows:           rows,
				Cols:           cols,
				Energy:         gridEnergy(pair.Forward),
				RoundTripError: maxAbsDiffDense(pair.Inverse.Values(), pair.Input),
			}
			if filtered, err := s.Filtered2D(domain); err == nil {
				energy := gridEnergy(filtered.Forward)
				recon := relativeErrorDense(filtered.Inverse.Values(), pair.Input)
				summary.FilteredEnergy = &energy
				summary.ReconstructionError = &recon
			}
			r.Images = append(r.Images, summary)
		}
	}
	return r, nil
}

func correctGain(bins []spectral.Bin, gain float64) []spectral.Bin {
	for i := range bins {
		bins[i].Magnitude /= gain
	}
	return bins
}

func vectorEnergy(v *spectral.Vector) float64 {
	if v.Complex != nil {
		return common.ComplexEnergy(v.Complex)
	}
	return common.Energy(v.Real)
}

func gridEnergy(g *spectral.Grid) float64 {
	m := denseData(g.Magnitude())
	return floats.Dot(m, m)
}

func countZeroed(before, after *spectral.Vector) int {
	b, a := before.Magnitude(), after.Magnitude()
	n := 0
	for i := range a {
		if a[i] == 0 && b[i] != 0 {
			n++
		}
	}
	return n
}

func maxAbsDiffDense(a, b *mat.Dense) float64 {
	return common.MaxAbsDiff(denseData(a), denseData(b))
}

func relativeErrorDense(a, b *mat.Dense) float64 {
	return common.RelativeError(denseData(a), denseData(b))
}

// denseData returns the elements of m in row-major order
func denseData(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		out = append(out, m.RawRowView(r)...)
	}
	return out
}
