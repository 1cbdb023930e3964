package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-workbench/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-workbench/analysis"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

func newSynthCommand(a *app) *cobra.Command {
	var signalFlags []string

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Compose sinusoids and analyse their spectra",
		Long: `Compose a signal from sinusoids, sample it and report its Fourier and
cosine spectra, optionally after an ideal filter.

Signals come from the config file unless --signal is given. Each --signal
takes "amplitude,frequency[,phase]" with the phase in degrees.

Examples:
  # Two tones sampled 64 times at 64 Hz
  workbench synth --samples 64 --rate 64 --signal 1,5 --signal 0.5,12,30

  # Keep only bins below 8 Hz
  workbench synth --signal 1,5 --signal 1,20 --filter lowpass --cutoff 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSynth(signalFlags)
		},
	}

	cmd.Flags().Int("samples", 64, "number of samples")
	cmd.Flags().Float64("rate", 64, "sampling frequency in Hz")
	cmd.Flags().Float64("step", 0.001, "time step of the dense plotting axis in seconds")
	cmd.Flags().StringArrayVar(&signalFlags, "signal", nil, `sinusoid as "amplitude,frequency[,phase]" (repeatable)`)
	addWindowFlag(cmd)
	addFilterFlags(cmd)
	addReportFlags(cmd)
	return cmd
}

func (a *app) runSynth(signalFlags []string) error {
	signals, err := a.signals(signalFlags)
	if err != nil {
		return err
	}

	session, err := a.newSession()
	if err != nil {
		return err
	}
	session.SetSampling(a.config.Sampling)
	for _, s := range signals {
		if err := session.AddSignal(s); err != nil {
			return err
		}
	}

	a.logger.Debug("Synthesizing signal", logging.Fields{
		"signals": len(signals),
		"samples": a.config.Sampling.SamplesNumber,
		"rate":    a.config.Sampling.SamplingFrequency,
		"state":   session.State().String(),
	})

	if err := session.Compute(); err != nil {
		return err
	}
	if err := a.applyFilter(session); err != nil {
		return err
	}
	return a.emitReport(session)
}

// signals returns the sinusoids given on the command line, falling back to
// the configured list
func (a *app) signals(specs []string) ([]*synthesis.Sine, error) {
	if len(specs) == 0 {
		out := make([]*synthesis.Sine, 0, len(a.config.Signals))
		for i := range a.config.Signals {
			s := a.config.Signals[i]
			out = append(out, &s)
		}
		return out, nil
	}

	out := make([]*synthesis.Sine, 0, len(specs))
	for _, spec := range specs {
		s, err := parseSine(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// parseSine reads "amplitude,frequency[,phase]"
func parseSine(spec string) (*synthesis.Sine, error) {
	values, err := parseFloats(spec, 2, 3)
	if err != nil {
		return nil, fmt.Errorf("signal %q: %w", spec, err)
	}
	phase := 0.0
	if len(values) == 3 {
		phase = values[2]
	}
	return synthesis.NewSine(values[0], values[1], phase)
}

// parseGrating reads "fx,fy,angle[,amplitude]"
func parseGrating(spec string) (*synthesis.Grating, error) {
	values, err := parseFloats(spec, 3, 4)
	if err != nil {
		return nil, fmt.Errorf("grating %q: %w", spec, err)
	}
	g := &synthesis.Grating{FrequencyX: values[0], FrequencyY: values[1], Angle: values[2], Amplitude: 1}
	if len(values) == 4 {
		g.Amplitude = values[3]
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseFloats(spec string, minFields, maxFields int) ([]float64, error) {
	parts := strings.Split(spec, ",")
	if len(parts) < minFields || len(parts) > maxFields {
		return nil, fmt.Errorf("expected %d to %d comma-separated values, got %d", minFields, maxFields, len(parts))
	}
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (a *app) newSession() (*analysis.Session, error) {
	opts := []analysis.Option{
		analysis.WithLogger(a.logger.WithFields(logging.Fields{
			"component": "analysis_session",
		})),
		analysis.WithImageSize(a.config.Image.Size),
	}
	window, err := parseWindow(a.config.Window)
	if err != nil {
		return nil, err
	}
	opts = append(opts, analysis.WithWindow(window))
	return analysis.NewSession(opts...), nil
}
