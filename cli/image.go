package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/filters"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
	"github.com/RyanBlaney/sonido-workbench/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-workbench/analysis"
	"github.com/RyanBlaney/sonido-workbench/logging"
	"github.com/RyanBlaney/sonido-workbench/render"
	"github.com/RyanBlaney/sonido-workbench/transcode"
)

func newImageCommand(a *app) *cobra.Command {
	var gratingFlags []string

	cmd := &cobra.Command{
		Use:   "image [file]",
		Short: "Analyse the 2-D spectrum of an image or of synthesized gratings",
		Long: `Transform an image, or a sum of oriented gratings, with the 2-D FFT and
DCT and optionally apply an ideal or Gaussian filter.

Without a file the gratings from the config file are used, unless --grating
is given. Each --grating takes "fx,fy,angle[,amplitude]" with the angle in
degrees. Images are converted to grayscale and resized to --size×--size.

With --out-dir the input, the forward magnitudes and the reconstructions
are written there as PNG heatmaps.

Examples:
  # A single diagonal grating
  workbench image --grating 4,4,45 --out-dir out

  # Gaussian low-pass of a photo
  workbench image photo.jpg --filter2d gaussian_lowpass --center-x 32 --center-y 32 --sigma 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.runImage(path, gratingFlags)
		},
	}

	cmd.Flags().Int("size", transcode.DefaultImageSize, "working image size in pixels")
	cmd.Flags().StringArrayVar(&gratingFlags, "grating", nil, `grating as "fx,fy,angle[,amplitude]" (repeatable)`)
	cmd.Flags().String("theme", string(render.ClassicTheme), fmt.Sprintf("heatmap colour theme (%s)", strings.Join(themeNames(), ", ")))
	cmd.Flags().Int("scale", 4, "heatmap pixels per matrix cell")
	cmd.Flags().String("out-dir", "", "directory heatmaps are written to")
	cmd.Flags().String("domain2d", "fourier", "domain the 2-D filter applies to (fourier, cosine)")
	cmd.Flags().String("filter2d", "none", "2-D filter (none, ideal_lowpass, ideal_highpass, gaussian_lowpass, gaussian_highpass)")
	cmd.Flags().Int("row", 0, "ideal filter row distance from the DC bin")
	cmd.Flags().Int("col", 0, "ideal filter column distance from the DC bin")
	cmd.Flags().Float64("center-x", 0, "Gaussian centre column")
	cmd.Flags().Float64("center-y", 0, "Gaussian centre row")
	cmd.Flags().Float64("sigma", 0, "Gaussian standard deviation in bins")
	addReportFlags(cmd)
	return cmd
}

func (a *app) runImage(path string, gratingFlags []string) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}

	if path != "" {
		img, err := transcode.NewImageLoader(a.config.Image.Size).Load(path)
		if err != nil {
			return err
		}
		if err := session.LoadImage(img); err != nil {
			return err
		}
		a.logger.Info("Image loaded", logging.Fields{
			"path": path,
			"size": a.config.Image.Size,
		})
	} else {
		gratings, err := a.gratings(gratingFlags)
		if err != nil {
			return err
		}
		session.UseGratings()
		for _, g := range gratings {
			if err := session.AddGrating(g); err != nil {
				return err
			}
		}
	}

	if err := session.Compute(); err != nil {
		return err
	}

	domain, spec, err := a.config.Image.Filter.Spec()
	if err != nil {
		return err
	}
	if spec.Kind != filters.None2D {
		a.logger.Debug("Applying 2-D filter", logging.Fields{
			"domain": domain.String(),
			"filter": spec.Kind.String(),
		})
		if err := session.ApplyFilter2D(domain, spec); err != nil {
			return err
		}
	}

	if a.config.Image.OutDir != "" {
		if err := a.writeHeatmaps(session); err != nil {
			return err
		}
	}
	return a.emitReport(session)
}

// gratings returns the gratings given on the command line, falling back to
// the configured list
func (a *app) gratings(specs []string) ([]*synthesis.Grating, error) {
	if len(specs) == 0 {
		out := make([]*synthesis.Grating, 0, len(a.config.Image.Gratings))
		for i := range a.config.Image.Gratings {
			g := a.config.Image.Gratings[i]
			out = append(out, &g)
		}
		return out, nil
	}

	out := make([]*synthesis.Grating, 0, len(specs))
	for _, spec := range specs {
		g, err := parseGrating(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// heatmap is one matrix due to be rendered
type heatmap struct {
	name string
	m    mat.Matrix
	opts render.Options
}

// writeHeatmaps renders the input and every available 2-D result
func (a *app) writeHeatmaps(session *analysis.Session) error {
	dir := a.config.Image.OutDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	theme, err := render.ParseTheme(a.config.Image.Theme)
	if err != nil {
		return err
	}
	linear := render.Options{Theme: theme, Scaling: render.Linear, Scale: a.config.Image.Scale}
	logarithmic := render.Options{Theme: theme, Scaling: render.Logarithmic, Scale: a.config.Image.Scale}

	input, err := session.Image()
	if err != nil {
		return err
	}
	images := []heatmap{{"input", input, linear}}
	for _, domain := range spectral.Domains() {
		if pair, err := session.Pair2D(domain); err == nil {
			images = append(images,
				heatmap{domain.String() + "_forward", pair.Forward.Magnitude(), logarithmic},
				heatmap{domain.String() + "_inverse", pair.Inverse.Values(), linear},
			)
		}
		if pair, err := session.Filtered2D(domain); err == nil {
			images = append(images,
				heatmap{domain.String() + "_filtered_forward", pair.Forward.Magnitude(), logarithmic},
				heatmap{domain.String() + "_filtered_inverse", pair.Inverse.Values(), linear},
			)
		}
	}

	for _, img := range images {
		rgba, err := render.Heatmap(img.m, img.opts)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", img.name, err)
		}
		path := filepath.Join(dir, img.name+".png")
		if err := render.WriteImage(path, rgba); err != nil {
			return err
		}
		a.logger.Debug("Heatmap written", logging.Fields{
			"path": path,
		})
	}

	a.logger.Info("Heatmaps written", logging.Fields{
		"dir":   dir,
		"count": len(images),
	})
	return nil
}

func themeNames() []string {
	themes := render.Themes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = string(t)
	}
	return names
}
