package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultRolloffThreshold is the energy share below the rolloff frequency
const DefaultRolloffThreshold = 0.85

// flatnessFloor clamps magnitudes before taking logarithms
const flatnessFloor = 1e-10

// Descriptors summarize the shape of a magnitude spectrum. Frequencies are
// in Hz and only bins at non-negative frequencies take part.
type Descriptors struct {
	Centroid  float64 `json:"centroid" yaml:"centroid"`
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth"`
	Rolloff   float64 `json:"rolloff" yaml:"rolloff"`
	Flatness  float64 `json:"flatness" yaml:"flatness"`
	Crest     float64 `json:"crest" yaml:"crest"`
}

// Describe computes the descriptors of magnitudes over their frequency
// axis. An all-zero spectrum yields zero descriptors.
func Describe(magnitudes, frequencies []float64) Descriptors {
	mags, freqs := oneSided(magnitudes, frequencies)
	if len(mags) == 0 || floats.Sum(mags) == 0 {
		return Descriptors{}
	}

	centroid := stat.Mean(freqs, mags)
	return Descriptors{
		Centroid:  centroid,
		Bandwidth: math.Sqrt(stat.MomentAbout(2, freqs, centroid, mags)),
		Rolloff:   Rolloff(mags, freqs, DefaultRolloffThreshold),
		Flatness:  Flatness(mags),
		Crest:     Crest(mags),
	}
}

// oneSided keeps the bins at non-negative frequencies, in axis order
func oneSided(magnitudes, frequencies []float64) ([]float64, []float64) {
	if len(magnitudes) != len(frequencies) {
		return nil, nil
	}
	mags := make([]float64, 0, len(magnitudes))
	freqs := make([]float64, 0, len(frequencies))
	for i, f := range frequencies {
		if f >= 0 {
			mags = append(mags, magnitudes[i])
			freqs = append(freqs, f)
		}
	}
	return mags, freqs
}

// Rolloff returns the lowest frequency below which threshold of the
// spectral energy lies. The axis must be ascending.
func Rolloff(magnitudes, frequencies []float64, threshold float64) float64 {
	if len(magnitudes) == 0 || len(magnitudes) != len(frequencies) {
		return 0
	}

	total := floats.Dot(magnitudes, magnitudes)
	if total == 0 {
		return 0
	}

	target := threshold * total
	cumulative := 0.0
	for i, m := range magnitudes {
		cumulative += m * m
		if cumulative >= target {
			return frequencies[i]
		}
	}
	return frequencies[len(frequencies)-1]
}

// Flatness is the ratio of the geometric to the arithmetic mean, in [0, 1].
// Pure tones sit near 0 and white noise near 1.
func Flatness(magnitudes []float64) float64 {
	if len(magnitudes) == 0 {
		return 0
	}

	logSum := 0.0
	for _, m := range magnitudes {
		logSum += math.Log(math.Max(m, flatnessFloor))
	}

	arithmetic := floats.Sum(magnitudes) / float64(len(magnitudes))
	if arithmetic <= flatnessFloor {
		return 0
	}
	return math.Min(math.Exp(logSum/float64(len(magnitudes)))/arithmetic, 1)
}

// Crest is the peak-to-RMS ratio of the magnitudes
func Crest(magnitudes []float64) float64 {
	if len(magnitudes) == 0 {
		return 0
	}

	rms := math.Sqrt(floats.Dot(magnitudes, magnitudes) / float64(len(magnitudes)))
	if rms == 0 {
		return 0
	}
	return floats.Max(magnitudes) / rms
}
