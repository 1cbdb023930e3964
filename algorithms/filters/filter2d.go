package filters

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
)

// Kind2D selects a 2-D filter
type Kind2D int

const (
	None2D Kind2D = iota
	IdealLowPass
	IdealHighPass
	GaussianLowPass
	GaussianHighPass
)

func (k Kind2D) String() string {
	switch k {
	case None2D:
		return "none"
	case IdealLowPass:
		return "ideal_lowpass"
	case IdealHighPass:
		return "ideal_highpass"
	case GaussianLowPass:
		return "gaussian_lowpass"
	case GaussianHighPass:
		return "gaussian_highpass"
	default:
		return fmt.Sprintf("filters.Kind2D(%d)", int(k))
	}
}

// ParseKind2D accepts the String form; dashes and underscores are ignored
func ParseKind2D(s string) (Kind2D, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "none", "":
		return None2D, nil
	case "ideallowpass", "lowpass":
		return IdealLowPass, nil
	case "idealhighpass", "highpass":
		return IdealHighPass, nil
	case "gaussianlowpass":
		return GaussianLowPass, nil
	case "gaussianhighpass":
		return GaussianHighPass, nil
	default:
		return None2D, common.NewValidationError("filter2d", "unknown 2-D filter kind %q", s)
	}
}

// Spec2D describes a 2-D filter. Ideal filters read Row and Col, measured
// in bins away from the DC bin of the domain. Gaussian filters read the
// centre (x = column, y = row) and Sigma.
type Spec2D struct {
	Kind    Kind2D  `json:"kind" yaml:"kind"`
	Row     int     `json:"row,omitempty" yaml:"row,omitempty"`
	Col     int     `json:"col,omitempty" yaml:"col,omitempty"`
	CenterX float64 `json:"center_x,omitempty" yaml:"center_x,omitempty"`
	CenterY float64 `json:"center_y,omitempty" yaml:"center_y,omitempty"`
	Sigma   float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
}

func NewIdealLowPass(row, col int) Spec2D  { return Spec2D{Kind: IdealLowPass, Row: row, Col: col} }
func NewIdealHighPass(row, col int) Spec2D { return Spec2D{Kind: IdealHighPass, Row: row, Col: col} }

func NewGaussianLowPass(cx, cy, sigma float64) Spec2D {
	return Spec2D{Kind: GaussianLowPass, CenterX: cx, CenterY: cy, Sigma: sigma}
}

func NewGaussianHighPass(cx, cy, sigma float64) Spec2D {
	return Spec2D{Kind: GaussianHighPass, CenterX: cx, CenterY: cy, Sigma: sigma}
}

// Validate checks the parameters the kind uses
func (s Spec2D) Validate() error {
	op := s.Kind.String()
	switch s.Kind {
	case None2D:
		return nil
	case IdealLowPass, IdealHighPass:
		if s.Row < 0 || s.Col < 0 {
			return common.NewValidationError(op, "row and col must be non-negative, got (%d, %d)", s.Row, s.Col)
		}
		return nil
	case GaussianLowPass, GaussianHighPass:
		if !common.IsFinite(s.CenterX) || !common.IsFinite(s.CenterY) {
			return common.NewValidationError(op, "centre must be finite, got (%g, %g)", s.CenterX, s.CenterY)
		}
		if !common.IsFinite(s.Sigma) || s.Sigma <= 0 {
			return common.NewValidationError(op, "sigma must be positive and finite, got %g", s.Sigma)
		}
		return nil
	default:
		return common.NewValidationError("filter2d", "unknown 2-D filter kind %d", int(s.Kind))
	}
}

// IsGaussian reports whether the filter weights bins instead of zeroing them
func (s Spec2D) IsGaussian() bool {
	return s.Kind == GaussianLowPass || s.Kind == GaussianHighPass
}

// DCCenter returns the (row, col) of the zero-frequency bin: the centre of
// a shifted Fourier spectrum, or the origin of DCT coefficients
func DCCenter(domain spectral.Domain, rows, cols int) (int, int) {
	if domain == spectral.Fourier {
		return rows / 2, cols / 2
	}
	return 0, 0
}

// Mask2D builds the rows×cols mask of the filter for the domain. Ideal
// masks hold 1 for kept bins and 0 for zeroed ones; Gaussian masks hold the
// multiplicative weight.
func Mask2D(domain spectral.Domain, spec Spec2D, rows, cols int) (*mat.Dense, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, common.NewValidationError(spec.Kind.String(), "mask size must be positive, got %dx%d", rows, cols)
	}

	mask := mat.NewDense(rows, cols, nil)
	r0, c0 := DCCenter(domain, rows, cols)

	switch spec.Kind {
	case None2D:
		fillOnes(mask)
	case IdealLowPass, IdealHighPass:
		for r := 0; r < rows; r++ {
			dr := absInt(r - r0)
			for c := 0; c < cols; c++ {
				dc := absInt(c - c0)
				var keep bool
				if spec.Kind == IdealLowPass {
					keep = dr < spec.Row && dc < spec.Col
				} else {
					keep = dr >= spec.Row && dc >= spec.Col
				}
				if keep {
					mask.Set(r, c, 1)
				}
			}
		}
	case GaussianLowPass, GaussianHighPass:
		twoSigmaSq := 2 * spec.Sigma * spec.Sigma
		norm := math.Pi * twoSigmaSq
		for y := 0; y < rows; y++ {
			dy := float64(y) - spec.CenterY
			for x := 0; x < cols; x++ {
				dx := float64(x) - spec.CenterX
				g := math.Exp(-(dx*dx + dy*dy) / twoSigmaSq)
				if spec.Kind == GaussianHighPass {
					g = 1 - g
				}
				mask.Set(y, x, g/norm)
			}
		}
	}
	return mask, nil
}

// ApplyGrid returns a filtered copy of a 2-D transform result. Ideal
// filters zero the rejected bins; Gaussian filters multiply every bin by
// its weight.
func ApplyGrid(grid *spectral.Grid, spec Spec2D) (*spectral.Grid, error) {
	if grid == nil {
		return nil, common.NewValidationError(spec.Kind.String(), "no spectrum to filter")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	rows, cols := grid.Dims()
	mask, err := Mask2D(grid.Domain, spec, rows, cols)
	if err != nil {
		return nil, err
	}

	out := grid.Clone()
	gaussian := spec.IsGaussian()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w := mask.At(r, c)
			switch {
			case out.Complex != nil && gaussian:
				out.Complex[r][c] *= complex(w, 0)
			case out.Complex != nil && w == 0:
				out.Complex[r][c] = 0
			case gaussian:
				out.Real.Set(r, c, out.Real.At(r, c)*w)
			case w == 0:
				out.Real.Set(r, c, 0)
			}
		}
	}
	return out, nil
}

func fillOnes(m *mat.Dense) {
	rows, cols := m.Dims()
	for r := 0; r < rows; r++ {
		row := m.RawRowView(r)
		for c := 0; c < cols; c++ {
			row[c] = 1
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
