package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
	"github.com/RyanBlaney/sonido-workbench/analysis"
)

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// writeReport encodes the report as table, json or yaml
func writeReport(w io.Writer, format string, report *analysis.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return writeTable(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeTable(w io.Writer, r *analysis.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Source:\t%s\n", titleCaser.String(strings.ReplaceAll(r.Source, "_", " ")))
	fmt.Fprintf(tw, "State:\t%s\n", titleCaser.String(r.State))
	if r.Samples > 0 {
		fmt.Fprintf(tw, "Samples:\t%s at %s\n", printer.Sprintf("%d", r.Samples), formatHz(r.SampleRate))
	}
	if r.PlotPoints > 0 {
		fmt.Fprintf(tw, "Plot points:\t%s\n", printer.Sprintf("%d", r.PlotPoints))
	}
	if r.Samples > 0 {
		fmt.Fprintf(tw, "Peak / RMS:\t%s / %s\n", formatFloat(r.Peak), formatFloat(r.RMS))
		fmt.Fprintf(tw, "Mean / Std dev:\t%s / %s\n", formatFloat(r.Mean), formatFloat(r.StdDev))
	}
	if r.Window != "" {
		fmt.Fprintf(tw, "Window:\t%s (gain %s)\n", titleCaser.String(r.Window), formatFloat(r.WindowGain))
	}
	for i, label := range r.Signals {
		fmt.Fprintf(tw, "Signal %d:\t%s\n", i+1, label)
	}
	for i, label := range r.Gratings {
		fmt.Fprintf(tw, "Grating %d:\t%s\n", i+1, label)
	}
	if r.SilentWave {
		fmt.Fprintf(tw, "Note:\tthe sampled wave is silent\n")
	}

	for _, t := range r.Transforms {
		fmt.Fprintf(tw, "\n%s transform\n", titleCaser.String(t.Domain))
		fmt.Fprintf(tw, "  Bins:\t%s\n", printer.Sprintf("%d", t.Bins))
		fmt.Fprintf(tw, "  Energy:\t%s\n", formatFloat(t.Energy))
		fmt.Fprintf(tw, "  Round trip error:\t%.3g\n", t.RoundTripError)
		writeBins(tw, "  ", t.Dominant)
		writeDescriptors(tw, "  ", t.Descriptors)

		if f := t.Filtered; f != nil {
			fmt.Fprintf(tw, "  Filtered\n")
			fmt.Fprintf(tw, "    Zeroed bins:\t%s\n", printer.Sprintf("%d", f.ZeroedBins))
			fmt.Fprintf(tw, "    Energy:\t%s\n", formatFloat(f.Energy))
			fmt.Fprintf(tw, "    Reconstruction error:\t%.3g\n", f.ReconstructionError)
			writeBins(tw, "    ", f.Dominant)
			writeDescriptors(tw, "    ", f.Descriptors)
		}
	}

	for _, img := range r.Images {
		fmt.Fprintf(tw, "\n%s 2-D transform\n", titleCaser.String(img.Domain))
		fmt.Fprintf(tw, "  Size:\t%d×%d\n", img.Rows, img.Cols)
		fmt.Fprintf(tw, "  Energy:\t%s\n", formatFloat(img.Energy))
		fmt.Fprintf(tw, "  Round trip error:\t%.3g\n", img.RoundTripError)
		if img.FilteredEnergy != nil {
			fmt.Fprintf(tw, "  Filtered energy:\t%s\n", formatFloat(*img.FilteredEnergy))
		}
		if img.ReconstructionError != nil {
			fmt.Fprintf(tw, "  Reconstruction error:\t%.3g\n", *img.ReconstructionError)
		}
	}

	return tw.Flush()
}

func writeBins(w io.Writer, indent string, bins []spectral.Bin) {
	if len(bins) == 0 {
		fmt.Fprintf(w, "%sDominant bins:\tnone\n", indent)
		return
	}
	fmt.Fprintf(w, "%sDominant bins:\n", indent)
	for _, b := range bins {
		fmt.Fprintf(w, "%s  #%d\t%s\t|X| = %s\n", indent, b.Index, formatHz(b.Frequency), formatFloat(b.Magnitude))
	}
}

func writeDescriptors(w io.Writer, indent string, d spectral.Descriptors) {
	fmt.Fprintf(w, "%sCentroid:\t%s\n", indent, formatHz(d.Centroid))
	fmt.Fprintf(w, "%sBandwidth:\t%s\n", indent, formatHz(d.Bandwidth))
	fmt.Fprintf(w, "%sRolloff:\t%s\n", indent, formatHz(d.Rolloff))
	fmt.Fprintf(w, "%sFlatness:\t%.3f\n", indent, d.Flatness)
	fmt.Fprintf(w, "%sCrest:\t%.3f\n", indent, d.Crest)
}

func formatHz(v float64) string {
	if v < 0 {
		return "-" + humanize.SIWithDigits(-v, 2, "Hz")
	}
	return humanize.SIWithDigits(v, 2, "Hz")
}

func formatFloat(v float64) string {
	return humanize.FtoaWithDigits(v, 4)
}
