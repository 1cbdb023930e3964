package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mjibson/go-dsp/wav"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channels in the source, before mixdown
	Duration   time.Duration `json:"duration"`
	Codec      string        `json:"codec,omitempty"`
}

// DecoderConfig holds audio loader configuration
type DecoderConfig struct {
	FFmpegPath  string        `json:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FFprobePath string        `json:"ffprobe_path" mapstructure:"ffprobe_path"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`
	// TargetSampleRate resamples ffmpeg output; 0 keeps the source rate
	TargetSampleRate int `json:"target_sample_rate" mapstructure:"target_sample_rate"`
	// MaxDuration truncates long inputs; 0 means no limit
	MaxDuration time.Duration `json:"max_duration" mapstructure:"max_duration"`
}

// DefaultDecoderConfig returns default loader configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Timeout:     30 * time.Second,
	}
}

// Validate checks the loader configuration
func (c *DecoderConfig) Validate() error {
	if c.Timeout <= 0 {
		return common.NewValidationError("decoder config", "timeout must be positive: %v", c.Timeout)
	}
	if c.TargetSampleRate < 0 {
		return common.NewValidationError("decoder config", "target sample rate must not be negative: %d", c.TargetSampleRate)
	}
	if c.MaxDuration < 0 {
		return common.NewValidationError("decoder config", "max duration must not be negative: %v", c.MaxDuration)
	}
	return nil
}

// audioMetadata holds audio properties detected by ffprobe
type audioMetadata struct {
	SampleRate int
	Channels   int
	Codec      string
	Duration   float64
}

// AudioLoader reads audio files into mono PCM. WAV files are decoded
// in-process; everything else goes through ffmpeg.
type AudioLoader struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewAudioLoader creates an audio loader
func NewAudioLoader(config *DecoderConfig) *AudioLoader {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &AudioLoader{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_loader",
		}),
	}
}

// Load decodes the file at path, mixing all channels down to mono
func (l *AudioLoader) Load(ctx context.Context, path string) (*AudioData, error) {
	logger := l.logger.WithFields(logging.Fields{
		"function": "Load",
		"filename": path,
	})
	logger.Debug("Starting audio file decode")

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !slices.Contains(l.SupportedFormats(), ext) {
		return nil, common.NewValidationError("load audio", "unsupported audio format %q", ext)
	}

	var (
		data *AudioData
		err  error
	)
	if ext == "wav" {
		data, err = l.loadWAV(path)
	} else {
		data, err = l.loadFFmpeg(ctx, path)
	}
	if err != nil {
		logger.Error(err, "Audio decode failed")
		return nil, err
	}

	data.PCM = l.truncate(data.PCM, data.SampleRate)
	data.Duration = samplesDuration(len(data.PCM), data.SampleRate)

	logger.Debug("Audio decode completed", logging.Fields{
		"samples":     len(data.PCM),
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"duration":    data.Duration.Seconds(),
	})
	return data, nil
}

// SupportedFormats returns the file extensions the loader accepts
func (l *AudioLoader) SupportedFormats() []string {
	return []string{"wav", "mp3", "flac", "ogg", "opus", "m4a", "aac", "wma"}
}

func (l *AudioLoader) loadWAV(path string) (*AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	return DecodeWAV(f)
}

// DecodeWAV reads a WAV stream and mixes its channels down to mono
func DecodeWAV(r io.Reader) (*AudioData, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, common.NewValidationError("decode wav", "%v", err)
	}

	channels := int(w.Header.NumChannels)
	if channels <= 0 {
		return nil, common.NewValidationError("decode wav", "invalid channel count: %d", channels)
	}
	if w.Header.SampleRate == 0 {
		return nil, common.NewValidationError("decode wav", "sample rate is zero")
	}

	// Reads past the data chunk fail outright, so the bulk read is sized
	// from the header and any tail is drained one frame at a time.
	interleaved := make([]float64, 0, min(w.Samples, maxWAVPrealloc))
	for remaining := w.Samples; remaining > 0; {
		n := min(wavChunk, remaining)
		values, err := readWAVValues(w, n)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, common.NewValidationError("decode wav", "data chunk truncated after %d of %d samples", len(interleaved), w.Samples)
		}
		if err != nil {
			return nil, fmt.Errorf("read wav samples: %w", err)
		}
		interleaved = append(interleaved, values...)
		remaining -= n
	}
	for {
		values, err := readWAVValues(w, channels)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read wav samples: %w", err)
		}
		interleaved = append(interleaved, values...)
	}

	pcm := mixdown(interleaved, channels)
	if len(pcm) == 0 {
		return nil, common.NewValidationError("decode wav", "no audio samples")
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: int(w.Header.SampleRate),
		Channels:   channels,
		Codec:      "pcm",
	}, nil
}

const (
	wavChunk = 4096
	// maxWAVPrealloc caps the buffer sized from the header's data chunk
	// length; longer files grow it while reading
	maxWAVPrealloc = 1 << 20
)

// readWAVValues reads n raw values and scales them to [-1, 1)
func readWAVValues(w *wav.Wav, n int) ([]float64, error) {
	raw, err := w.ReadSamples(n)
	if err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case []uint8:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = (float64(x) - 128) / 128
		}
		return out, nil
	case []int16:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x) / 32768
		}
		return out, nil
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, common.NewValidationError("decode wav", "unsupported sample type %T", raw)
	}
}

// mixdown averages interleaved frames into one channel. A trailing partial
// frame is dropped.
func mixdown(interleaved []float64, channels int) []float64 {
	frames := len(interleaved) / channels
	out := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for ch := range channels {
			sum += interleaved[i*channels+ch]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

func (l *AudioLoader) loadFFmpeg(ctx context.Context, path string) (*AudioData, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	metadata, err := l.probe(ctx, path)
	if err != nil {
		return nil, err
	}

	rate := metadata.SampleRate
	if l.config.TargetSampleRate > 0 {
		rate = l.config.TargetSampleRate
	}

	args := []string{
		"-v", "error",
		"-i", path,
		"-map", "0:a:0",
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(rate),
	}
	if l.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", l.config.MaxDuration.Seconds()))
	}
	args = append(args, "pipe:1")

	l.logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	cmd := exec.CommandContext(ctx, l.config.FFmpegPath, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	pcm := bytesToFloat64(output)
	if len(pcm) == 0 {
		return nil, common.NewValidationError("load audio", "no audio samples decoded from %s", path)
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: rate,
		Channels:   metadata.Channels,
		Codec:      metadata.Codec,
	}, nil
}

// probe uses ffprobe to read the first audio stream's properties
func (l *AudioLoader) probe(ctx context.Context, path string) (*audioMetadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	}

	output, err := exec.CommandContext(ctx, l.config.FFprobePath, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseFFprobeOutput(output)
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*audioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, common.NewValidationError("probe audio", "no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, common.NewValidationError("probe audio", "stream is not audio type: %s", stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, common.NewValidationError("probe audio", "invalid sample rate %q", stream.SampleRate)
	}
	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, common.NewValidationError("probe audio", "invalid channel count: %d", stream.Channels)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &audioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// bytesToFloat64 converts raw little-endian float64 bytes
func bytesToFloat64(data []byte) []float64 {
	data = data[:len(data)-len(data)%8]
	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}

func (l *AudioLoader) truncate(pcm []float64, sampleRate int) []float64 {
	if l.config.MaxDuration <= 0 {
		return pcm
	}
	limit := int(l.config.MaxDuration.Seconds() * float64(sampleRate))
	if limit > 0 && len(pcm) > limit {
		return pcm[:limit]
	}
	return pcm
}

func samplesDuration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(sampleRate)
}
