package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme names a colour scheme for spectrum magnitudes
type Theme string

const (
	ClassicTheme   Theme = "classic"   // blue to red
	GrayscaleTheme Theme = "grayscale" // black to white
	JungleTheme    Theme = "jungle"    // dark green to yellow
	ThermalTheme   Theme = "thermal"   // black to red to yellow to white
	MarineTheme    Theme = "marine"    // deep blue to cyan to white

	DefaultColorMapSize = 256
)

// Themes lists every supported theme
func Themes() []Theme {
	return []Theme{ClassicTheme, GrayscaleTheme, JungleTheme, ThermalTheme, MarineTheme}
}

// ParseTheme resolves a theme name, defaulting to classic for ""
func ParseTheme(s string) (Theme, error) {
	if s == "" {
		return ClassicTheme, nil
	}
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Themes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown colour theme %q", s)
}

// ColorMapper maps normalized values in [0, 1] to colours through a
// precomputed lookup table
type ColorMapper struct {
	colorMap []color.RGBA
	theme    Theme
}

// NewColorMapper builds the lookup table for a theme
func NewColorMapper(theme Theme, size int) (*ColorMapper, error) {
	if size < 2 {
		size = DefaultColorMapSize
	}
	fn, err := themeFunc(theme)
	if err != nil {
		return nil, err
	}

	cm := &ColorMapper{
		colorMap: make([]color.RGBA, size),
		theme:    theme,
	}
	for i := range cm.colorMap {
		cm.colorMap[i] = fn(float64(i) / float64(size-1))
	}
	return cm, nil
}

// Color returns the colour of a normalized value. Out of range and NaN
// values clamp to the ends of the map.
func (cm *ColorMapper) Color(v float64) color.RGBA {
	if v != v || v <= 0 {
		return cm.colorMap[0]
	}
	index := int(v * float64(len(cm.colorMap)-1))
	if index >= len(cm.colorMap) {
		index = len(cm.colorMap) - 1
	}
	return cm.colorMap[index]
}

// Theme returns the mapper's theme
func (cm *ColorMapper) Theme() Theme {
	return cm.theme
}

func hsv(h, s, v float64) color.RGBA {
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func themeFunc(theme Theme) (func(float64) color.RGBA, error) {
	switch theme {
	case ClassicTheme:
		return func(p float64) color.RGBA {
			return hsv(240-p*240, 0.9+p*0.1, math.Pow(p, 0.7))
		}, nil

	case GrayscaleTheme:
		return func(p float64) color.RGBA {
			v := uint8(p * 255)
			return color.RGBA{R: v, G: v, B: v, A: 255}
		}, nil

	case JungleTheme:
		return func(p float64) color.RGBA {
			return hsv(120-p*60, 1, 0.3+math.Pow(p, 0.6)*0.7)
		}, nil

	case ThermalTheme:
		return func(p float64) color.RGBA {
			switch {
			case p < 1.0/3:
				return color.RGBA{R: uint8(p * 3 * 255), A: 255}
			case p < 2.0/3:
				return color.RGBA{R: 255, G: uint8((p - 1.0/3) * 3 * 255), A: 255}
			default:
				return color.RGBA{R: 255, G: 255, B: uint8(math.Min(1, (p-2.0/3)*3) * 255), A: 255}
			}
		}, nil

	case MarineTheme:
		return func(p float64) color.RGBA {
			return hsv(240-p*60, 1-p*0.8, 0.3+math.Pow(p, 0.6)*0.7)
		}, nil

	default:
		return nil, fmt.Errorf("unknown colour theme %q", theme)
	}
}
