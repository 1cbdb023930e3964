package cli

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-workbench/algorithms/filters"
	"github.com/RyanBlaney/sonido-workbench/algorithms/windowing"
	"github.com/RyanBlaney/sonido-workbench/analysis"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

func addWindowFlag(cmd *cobra.Command) {
	cmd.Flags().String("window", "rectangular", "taper applied before 1-D transforms (rectangular, hann, hamming, blackman, bartlett, welch)")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("domain", "fourier", "domain the filter applies to (fourier, cosine)")
	cmd.Flags().String("filter", "none", "ideal filter (none, lowpass, highpass, bandpass, bandstop)")
	cmd.Flags().Float64("cutoff", 0, "low-pass or high-pass cutoff in Hz")
	cmd.Flags().Float64("low", 0, "lower band edge in Hz")
	cmd.Flags().Float64("high", 0, "upper band edge in Hz")
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Int("top", 6, "dominant bins listed per transform")
}

func parseWindow(name string) (windowing.Type, error) {
	return windowing.ParseType(name)
}

// applyFilter runs the configured 1-D filter, if any
func (a *app) applyFilter(session *analysis.Session) error {
	domain, spec, err := a.config.Filter.Spec()
	if err != nil {
		return err
	}
	if spec.Kind == filters.None {
		return nil
	}

	a.logger.Debug("Applying filter", logging.Fields{
		"domain": domain.String(),
		"filter": spec.Kind.String(),
	})
	return session.ApplyFilter(domain, spec)
}

// emitReport summarizes the session and writes it in the configured format
func (a *app) emitReport(session *analysis.Session) error {
	report, err := analysis.NewReport(session, a.config.Report.TopBins)
	if err != nil {
		return err
	}
	return writeReport(a.out, a.config.OutputFormat, report)
}
