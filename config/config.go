package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-workbench/algorithms/axis"
	"github.com/RyanBlaney/sonido-workbench/algorithms/filters"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
	"github.com/RyanBlaney/sonido-workbench/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-workbench/algorithms/windowing"
	"github.com/RyanBlaney/sonido-workbench/logging"
	"github.com/RyanBlaney/sonido-workbench/render"
	"github.com/RyanBlaney/sonido-workbench/transcode"
)

// EnvPrefix prefixes every environment variable override
const EnvPrefix = "WORKBENCH"

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OutputFormat string `mapstructure:"output_format"`

	// Synthesized 1-D input
	Sampling axis.Sampling    `mapstructure:"sampling"`
	Signals  []synthesis.Sine `mapstructure:"signals"`
	Window   string           `mapstructure:"window"`

	Filter  FilterConfig            `mapstructure:"filter"`
	Report  ReportConfig            `mapstructure:"report"`
	Image   ImageConfig             `mapstructure:"image"`
	Decoder transcode.DecoderConfig `mapstructure:"decoder"`
}

// FilterConfig describes the optional 1-D filter
type FilterConfig struct {
	Domain string  `mapstructure:"domain"`
	Type   string  `mapstructure:"type"`
	Cutoff float64 `mapstructure:"cutoff"`
	Low    float64 `mapstructure:"low"`
	High   float64 `mapstructure:"high"`
}

// Filter2DConfig describes the optional 2-D filter
type Filter2DConfig struct {
	Domain  string  `mapstructure:"domain"`
	Type    string  `mapstructure:"type"`
	Row     int     `mapstructure:"row"`
	Col     int     `mapstructure:"col"`
	CenterX float64 `mapstructure:"center_x"`
	CenterY float64 `mapstructure:"center_y"`
	Sigma   float64 `mapstructure:"sigma"`
}

// ReportConfig contains report settings
type ReportConfig struct {
	TopBins int `mapstructure:"top_bins"`
}

// ImageConfig contains 2-D input and rendering settings
type ImageConfig struct {
	Size     int                 `mapstructure:"size"`
	Theme    string              `mapstructure:"theme"`
	Scale    int                 `mapstructure:"scale"`
	OutDir   string              `mapstructure:"out_dir"`
	Gratings []synthesis.Grating `mapstructure:"gratings"`
	Filter   Filter2DConfig      `mapstructure:"filter"`
}

// NewViper builds a viper instance that reads configFile, or searches the
// usual locations for workbench.yaml when configFile is empty. A missing
// config file is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "workbench"))
		}
		v.AddConfigPath("/etc/workbench")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.SetConfigName("workbench")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", "table")

	v.SetDefault("sampling.samples_number", 64)
	v.SetDefault("sampling.sampling_frequency", 64.0)
	v.SetDefault("sampling.time_step", 0.001)
	v.SetDefault("window", "rectangular")

	v.SetDefault("filter.domain", "fourier")
	v.SetDefault("filter.type", "none")

	v.SetDefault("report.top_bins", 6)

	v.SetDefault("image.size", transcode.DefaultImageSize)
	v.SetDefault("image.theme", string(render.ClassicTheme))
	v.SetDefault("image.scale", 4)
	v.SetDefault("image.out_dir", "")
	v.SetDefault("image.filter.domain", "fourier")
	v.SetDefault("image.filter.type", "none")

	v.SetDefault("decoder.ffmpeg_path", "ffmpeg")
	v.SetDefault("decoder.ffprobe_path", "ffprobe")
	v.SetDefault("decoder.timeout", 30*time.Second)
	v.SetDefault("decoder.target_sample_rate", 0)
	v.SetDefault("decoder.max_duration", 0)
}

// Load decodes the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	return config, nil
}

// Validate checks every section of the configuration
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json", "console":
	default:
		return fmt.Errorf("log format must be text, json or console, got %q", c.LogFormat)
	}
	switch c.OutputFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output format must be table, json or yaml, got %q", c.OutputFormat)
	}

	if err := c.Sampling.Validate(); err != nil {
		return err
	}
	for i := range c.Signals {
		if err := c.Signals[i].Validate(); err != nil {
			return fmt.Errorf("signal %d: %w", i+1, err)
		}
	}
	if _, err := windowing.ParseType(c.Window); err != nil {
		return err
	}
	if _, _, err := c.Filter.Spec(); err != nil {
		return err
	}

	if c.Report.TopBins < 0 {
		return fmt.Errorf("report top bins cannot be negative")
	}

	if c.Image.Size <= 0 {
		return fmt.Errorf("image size must be positive")
	}
	if c.Image.Scale < 1 {
		return fmt.Errorf("image scale must be at least 1")
	}
	if _, err := render.ParseTheme(c.Image.Theme); err != nil {
		return err
	}
	for i := range c.Image.Gratings {
		if err := c.Image.Gratings[i].Validate(); err != nil {
			return fmt.Errorf("grating %d: %w", i+1, err)
		}
	}
	if _, _, err := c.Image.Filter.Spec(); err != nil {
		return err
	}

	return c.Decoder.Validate()
}

// Spec resolves the 1-D filter and the domain it applies to
func (f FilterConfig) Spec() (spectral.Domain, filters.Spec, error) {
	domain, err := spectral.ParseDomain(f.Domain)
	if err != nil {
		return 0, filters.Spec{}, err
	}
	kind, err := filters.ParseKind(f.Type)
	if err != nil {
		return 0, filters.Spec{}, err
	}
	var spec filters.Spec
	switch kind {
	case filters.LowPass:
		spec = filters.NewLowPass(f.Cutoff)
	case filters.HighPass:
		spec = filters.NewHighPass(f.Cutoff)
	case filters.BandPass:
		spec = filters.NewBandPass(f.Low, f.High)
	case filters.BandStop:
		spec = filters.NewBandStop(f.Low, f.High)
	}
	if err := spec.Validate(); err != nil {
		return 0, filters.Spec{}, err
	}
	return domain, spec, nil
}

// Spec resolves the 2-D filter and the domain it applies to
func (f Filter2DConfig) Spec() (spectral.Domain, filters.Spec2D, error) {
	domain, err := spectral.ParseDomain(f.Domain)
	if err != nil {
		return 0, filters.Spec2D{}, err
	}
	kind, err := filters.ParseKind2D(f.Type)
	if err != nil {
		return 0, filters.Spec2D{}, err
	}
	var spec filters.Spec2D
	switch kind {
	case filters.IdealLowPass:
		spec = filters.NewIdealLowPass(f.Row, f.Col)
	case filters.IdealHighPass:
		spec = filters.NewIdealHighPass(f.Row, f.Col)
	case filters.GaussianLowPass:
		spec = filters.NewGaussianLowPass(f.CenterX, f.CenterY, f.Sigma)
	case filters.GaussianHighPass:
		spec = filters.NewGaussianHighPass(f.CenterX, f.CenterY, f.Sigma)
	}
	if err := spec.Validate(); err != nil {
		return 0, filters.Spec2D{}, err
	}
	return domain, spec, nil
}
