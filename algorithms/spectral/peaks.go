package spectral

import (
	"sort"
)

// Bin is one frequency bin picked out of a magnitude spectrum
type Bin struct {
	Index     int     `json:"index" yaml:"index"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
}

// DominantBins returns up to maxBins bins with the largest magnitude,
// strongest first. Bins below minRelative times the strongest magnitude are
// ignored, and an all-zero spectrum yields no bins. The frequency axis must
// match the spectrum length; when it does not, Frequency is left at 0.
func DominantBins(magnitudes, frequencies []float64, maxBins int, minRelative float64) []Bin {
	if len(magnitudes) == 0 || maxBins <= 0 {
		return []Bin{}
	}

	peak := 0.0
	for _, m := range magnitudes {
		peak = max(peak, m)
	}
	if peak == 0 {
		return []Bin{}
	}
	threshold := peak * minRelative

	var bins []Bin
	for i, m := range magnitudes {
		if m <= 0 || m < threshold {
			continue
		}
		b := Bin{Index: i, Magnitude: m}
		if len(frequencies) == len(magnitudes) {
			b.Frequency = frequencies[i]
		}
		bins = append(bins, b)
	}

	// Strongest first, ties resolved by bin order
	sort.SliceStable(bins, func(i, j int) bool {
		return bins[i].Magnitude > bins[j].Magnitude
	})

	if len(bins) > maxBins {
		bins = bins[:maxBins]
	}
	return bins
}
