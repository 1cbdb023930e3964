package transcode

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

// DefaultImageSize is the working resolution images are resized to
const DefaultImageSize = 64

// ImageLoader reads image files into grayscale matrices at a fixed working
// resolution
type ImageLoader struct {
	size   int
	logger logging.Logger
}

// NewImageLoader creates a loader that resizes to size×size. A size of 0
// uses DefaultImageSize.
func NewImageLoader(size int) *ImageLoader {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &ImageLoader{
		size: size,
		logger: logging.WithFields(logging.Fields{
			"component": "image_loader",
		}),
	}
}

// Load decodes the image file at path
func (l *ImageLoader) Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return l.Decode(f)
}

// Decode reads any registered image format, converts it to grayscale in
// [0, 255] and resizes it to the working resolution
func (l *ImageLoader) Decode(r io.Reader) (*mat.Dense, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, common.NewValidationError("load image", "%v", err)
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, common.NewValidationError("load image", "image is empty")
	}

	dst := image.NewGray(image.Rect(0, 0, l.size, l.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	l.logger.Debug("Image decoded", logging.Fields{
		"format":      format,
		"source_size": fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"size":        l.size,
	})

	return GrayToDense(dst), nil
}

// GrayToDense copies grayscale pixel values into a matrix, one row per
// image row
func GrayToDense(img *image.Gray) *mat.Dense {
	b := img.Bounds()
	if b.Empty() {
		return &mat.Dense{}
	}
	out := mat.NewDense(b.Dy(), b.Dx(), nil)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(y-b.Min.Y, x-b.Min.X, float64(img.GrayAt(x, y).Y))
		}
	}
	return out
}

// DenseToGray clamps matrix values to [0, 255] and returns them as an image
func DenseToGray(m mat.Matrix) *image.Gray {
	if common.IsNilMatrix(m) {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	rows, cols := m.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for r := range rows {
		for c := range cols {
			v := m.At(r, c)
			switch {
			case v < 0 || v != v:
				v = 0
			case v > 255:
				v = 255
			}
			img.SetGray(c, r, color.Gray{Y: uint8(v + 0.5)})
		}
	}
	return img
}
