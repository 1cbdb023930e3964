package synthesis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// Grating is an oriented 2-D sinusoid evaluated on an N×N integer grid as
// A·sin(2π·(x·cosθ·fx + y·sinθ·fy)/N), x being the column and y the row.
type Grating struct {
	FrequencyX float64 `json:"frequency_x" yaml:"frequency_x" mapstructure:"frequency_x"`
	FrequencyY float64 `json:"frequency_y" yaml:"frequency_y" mapstructure:"frequency_y"`
	Angle      float64 `json:"angle" yaml:"angle" mapstructure:"angle"`
	Amplitude  float64 `json:"amplitude" yaml:"amplitude" mapstructure:"amplitude"`
}

// NewGrating creates a unit-amplitude grating
func NewGrating(frequencyX, frequencyY, angle float64) (*Grating, error) {
	g := &Grating{FrequencyX: frequencyX, FrequencyY: frequencyY, Angle: angle, Amplitude: 1}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate requires finite parameters
func (g *Grating) Validate() error {
	params := []struct {
		name  string
		value float64
	}{
		{"frequency x", g.FrequencyX},
		{"frequency y", g.FrequencyY},
		{"angle", g.Angle},
		{"amplitude", g.Amplitude},
	}
	for _, p := range params {
		if !common.IsFinite(p.value) {
			return common.NewValidationError("grating", "%s must be finite, got %g", p.name, p.value)
		}
	}
	return nil
}

// Evaluate renders the grating on a size×size grid
func (g *Grating) Evaluate(size int) (*mat.Dense, error) {
	if size <= 0 {
		return nil, common.NewValidationError("grating", "size must be positive, got %d", size)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	theta := g.Angle * math.Pi / 180.0
	kx := math.Cos(theta) * g.FrequencyX
	ky := math.Sin(theta) * g.FrequencyY
	n := float64(size)

	m := mat.NewDense(size, size, nil)
	for y := 0; y < size; y++ {
		row := m.RawRowView(y)
		for x := range row {
			row[x] = g.Amplitude * math.Sin(2*math.Pi*(float64(x)*kx+float64(y)*ky)/n)
		}
	}
	return m, nil
}

// Label describes the grating parameters
func (g *Grating) Label() string {
	return fmt.Sprintf("%s grating(fx=%s, fy=%s, θ=%s°)",
		formatValue(g.Amplitude), formatValue(g.FrequencyX), formatValue(g.FrequencyY), formatValue(g.Angle))
}

// SynthesizeGratings sums the gratings on a size×size grid; zeros when empty
func SynthesizeGratings(gratings []*Grating, size int) (*mat.Dense, error) {
	if size <= 0 {
		return nil, common.NewValidationError("grating", "size must be positive, got %d", size)
	}

	sum := mat.NewDense(size, size, nil)
	for _, g := range gratings {
		m, err := g.Evaluate(size)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, m)
	}
	return sum, nil
}
