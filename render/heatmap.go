package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// Scaling selects how values are normalized before colouring
type Scaling int

const (
	// Linear maps min..max straight onto the colour map
	Linear Scaling = iota
	// Logarithmic applies log(1+|x|) first
	Logarithmic
)

// Options control heatmap rendering
type Options struct {
	Theme   Theme
	Scaling Scaling
	// Scale enlarges each matrix cell to Scale×Scale pixels
	Scale int
}

// Heatmap renders a matrix as a colour image, one cell per pixel before
// scaling. Row 0 is drawn at the top.
func Heatmap(m mat.Matrix, opts Options) (*image.RGBA, error) {
	if common.IsNilMatrix(m) {
		return nil, fmt.Errorf("heatmap: nil matrix")
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("heatmap: empty %dx%d matrix", rows, cols)
	}
	if opts.Theme == "" {
		opts.Theme = ClassicTheme
	}
	mapper, err := NewColorMapper(opts.Theme, DefaultColorMapSize)
	if err != nil {
		return nil, err
	}

	values := normalize(m, opts.Scaling)
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for r := range rows {
		for c := range cols {
			img.SetRGBA(c, r, mapper.Color(values.At(r, c)))
		}
	}

	if opts.Scale > 1 {
		return upscale(img, opts.Scale), nil
	}
	return img, nil
}

// normalize maps the matrix onto [0, 1]. A constant matrix maps to 0.
func normalize(m mat.Matrix, scaling Scaling) *mat.Dense {
	out := mat.DenseCopyOf(m)
	if scaling == Logarithmic {
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Log1p(math.Abs(v))
		}, out)
	}

	rows, cols := out.Dims()
	return mat.NewDense(rows, cols, common.MinMaxNormalize(out.RawMatrix().Data))
}

func upscale(src *image.RGBA, scale int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// WriteImage encodes img to path. The extension picks PNG or JPEG.
func WriteImage(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported image extension %q", ext)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}

	switch ext {
	case ".png":
		err = png.Encode(out, img)
	default:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 98})
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("encoding image: %w", err)
	}
	return out.Close()
}
