package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-workbench/config"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

// flagKeys maps command-line flags onto configuration keys
var flagKeys = map[string]string{
	"verbose":      "verbose",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"output":       "output_format",
	"samples":      "sampling.samples_number",
	"rate":         "sampling.sampling_frequency",
	"step":         "sampling.time_step",
	"window":       "window",
	"domain":       "filter.domain",
	"filter":       "filter.type",
	"cutoff":       "filter.cutoff",
	"low":          "filter.low",
	"high":         "filter.high",
	"top":          "report.top_bins",
	"size":         "image.size",
	"theme":        "image.theme",
	"scale":        "image.scale",
	"out-dir":      "image.out_dir",
	"domain2d":     "image.filter.domain",
	"filter2d":     "image.filter.type",
	"row":          "image.filter.row",
	"col":          "image.filter.col",
	"center-x":     "image.filter.center_x",
	"center-y":     "image.filter.center_y",
	"sigma":        "image.filter.sigma",
	"ffmpeg":       "decoder.ffmpeg_path",
	"timeout":      "decoder.timeout",
	"max-duration": "decoder.max_duration",
}

// app carries what every command needs once flags are parsed
type app struct {
	configFile string
	out        io.Writer

	viper  *viper.Viper
	config *config.Config
	logger logging.Logger
}

// NewRootCommand builds the workbench command tree writing results to out
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "workbench",
		Short: "Signal analysis workbench",
		Long: `Synthesize, load and analyse signals in the Fourier and cosine domains.

The workbench composes sinusoids or reads audio and image files, computes
forward and inverse FFT/DCT transforms in one or two dimensions, applies
ideal and Gaussian spectral filters and reports the resulting spectra.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "",
		"config file (default is ./configs/workbench.yaml or $HOME/.config/workbench/workbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json, console)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table, json, yaml)")

	rootCmd.AddCommand(
		newSynthCommand(a),
		newAudioCommand(a),
		newImageCommand(a),
		newConfigTestCommand(a),
	)
	return rootCmd
}

// Execute runs the workbench command line
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// initialize loads configuration after flags are parsed and sets up logging
func (a *app) initialize(cmd *cobra.Command) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logging.SetGlobalLogger(logger)

	a.viper = v
	a.config = cfg
	a.logger = logger.WithFields(logging.Fields{
		"component": "cli",
		"command":   cmd.Name(),
	})

	if cfg.Verbose && v.ConfigFileUsed() != "" {
		a.logger.Info("Using config file", logging.Fields{
			"path": v.ConfigFileUsed(),
		})
	}
	return nil
}

// bindFlags binds every known flag to its configuration key, so explicit
// flags win over the file and the environment
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})
	return lastErr
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose && level > logging.DebugLevel {
		level = logging.DebugLevel
	}

	switch cfg.LogFormat {
	case "json", "console":
		return logging.NewZapLogger(cfg.LogFormat, level)
	default:
		logger := logging.NewDefaultLoggerWithWriters(os.Stderr, os.Stderr)
		logger.SetLevel(level)
		return logger, nil
	}
}
