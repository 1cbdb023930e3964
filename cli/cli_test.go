package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-workbench/analysis"
)

const testConfig = `
log_level: error
sampling:
  samples_number: 8
  sampling_frequency: 8
  time_step: 0.1
signals:
  - amplitude: 1
    frequency: 1
image:
  size: 16
  scale: 1
  gratings:
    - frequency_x: 2
      frequency_y: 0
      angle: 0
      amplitude: 1
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", writeTestConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decodeReport(t *testing.T, out string) *analysis.Report {
	t.Helper()
	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	return &report
}

func TestSynthUsesConfiguredSignals(t *testing.T) {
	out, err := run(t, "synth", "-o", "json")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Equal(t, "synthesized", report.Source)
	assert.Equal(t, "computed", report.State)
	assert.Equal(t, 8, report.Samples)
	assert.Equal(t, []string{"1 sin(2π·1·t)"}, report.Signals)
	require.Len(t, report.Transforms, 2)
	assert.Equal(t, "fourier", report.Transforms[0].Domain)
	assert.Equal(t, "cosine", report.Transforms[1].Domain)
	assert.Nil(t, report.Transforms[0].Filtered)
}

func TestSynthFlagsOverrideConfig(t *testing.T) {
	out, err := run(t, "synth", "-o", "json",
		"--signal", "1,1", "--signal", "1,3",
		"--filter", "lowpass", "--cutoff", "2")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Equal(t, "filtered", report.State)
	assert.Len(t, report.Signals, 2)

	fourier := report.Transforms[0]
	require.NotNil(t, fourier.Filtered)
	assert.GreaterOrEqual(t, fourier.Filtered.ZeroedBins, 2)
	require.NotEmpty(t, fourier.Filtered.Dominant)
	for _, bin := range fourier.Filtered.Dominant {
		assert.InDelta(t, 1.0, math.Abs(bin.Frequency), 1e-9)
	}
	assert.InDelta(t, 1.0, fourier.Filtered.Descriptors.Centroid, 1e-9)
	assert.Greater(t, fourier.Descriptors.Centroid, 1.0)
	assert.Nil(t, report.Transforms[1].Filtered)
}

func TestSynthYAMLAndTable(t *testing.T) {
	out, err := run(t, "synth", "-o", "yaml")
	require.NoError(t, err)
	var report analysis.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, "synthesized", report.Source)

	out, err = run(t, "synth")
	require.NoError(t, err)
	assert.Contains(t, out, "Fourier transform")
	assert.Contains(t, out, "Cosine transform")
	assert.Contains(t, out, "1 sin(2π·1·t)")
	assert.Contains(t, out, "Centroid:")
}

func TestSynthRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"malformed signal", []string{"synth", "--signal", "1"}},
		{"negative frequency", []string{"synth", "--signal", "1,-2"}},
		{"band order", []string{"synth", "--filter", "bandpass", "--low", "3", "--high", "1"}},
		{"zero samples", []string{"synth", "--samples", "0"}},
		{"unknown window", []string{"synth", "--window", "kaiser"}},
		{"unknown output", []string{"synth", "-o", "csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAudioCommand(t *testing.T) {
	samples := make([]int16, 800)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*float64(i)/8))
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, os.WriteFile(path, monoWAV(t, 8000, samples), 0o644))

	out, err := run(t, "audio", path, "-o", "json", "--top", "2")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Equal(t, "audio_file", report.Source)
	assert.Equal(t, 800, report.Samples)
	assert.Equal(t, 8000.0, report.SampleRate)
	require.Len(t, report.Transforms[0].Dominant, 2)
	for _, bin := range report.Transforms[0].Dominant {
		assert.InDelta(t, 1000.0, math.Abs(bin.Frequency), 1e-6)
	}
}

func TestAudioCommandErrors(t *testing.T) {
	_, err := run(t, "audio")
	assert.Error(t, err)

	_, err = run(t, "audio", filepath.Join(t.TempDir(), "notes.txt"))
	assert.Error(t, err)
}

func TestImageCommandWritesHeatmaps(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := run(t, "image", "-o", "json", "--out-dir", dir,
		"--filter2d", "gaussian_lowpass", "--center-x", "8", "--center-y", "8", "--sigma", "3")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Equal(t, "gratings", report.Source)
	assert.Equal(t, "filtered", report.State)
	require.Len(t, report.Images, 2)
	assert.Equal(t, 16, report.Images[0].Rows)
	assert.NotNil(t, report.Images[0].FilteredEnergy)
	assert.Nil(t, report.Images[1].FilteredEnergy)

	for _, name := range []string{
		"input", "fourier_forward", "fourier_inverse", "cosine_forward", "cosine_inverse",
		"fourier_filtered_forward", "fourier_filtered_inverse",
	} {
		assert.FileExists(t, filepath.Join(dir, name+".png"))
	}
}

func TestImageGratingFlag(t *testing.T) {
	out, err := run(t, "image", "-o", "json", "--grating", "4,4,45,2", "--grating", "1,0,0")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Len(t, report.Gratings, 2)

	_, err = run(t, "image", "--grating", "4,4")
	assert.Error(t, err)
}

func TestConfigTestCommand(t *testing.T) {
	out, err := run(t, "config-test")
	require.NoError(t, err)
	assert.Contains(t, out, "SAMPLING")
	assert.Contains(t, out, "1 sin(2π·1·t)")
	assert.Contains(t, out, "CONFIGURATION TEST COMPLETED SUCCESSFULLY")
}

func TestParseSine(t *testing.T) {
	s, err := parseSine("2, 5, -30")
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Amplitude)
	assert.Equal(t, 5.0, s.Frequency)
	assert.Equal(t, -30.0, s.Phase)

	s, err = parseSine("1,10")
	require.NoError(t, err)
	assert.Zero(t, s.Phase)

	_, err = parseSine("1,x")
	assert.Error(t, err)
	_, err = parseSine("1,2,3,4")
	assert.Error(t, err)
}

// monoWAV builds a 16-bit mono PCM WAV file
func monoWAV(t *testing.T, sampleRate int, samples []int16) []byte {
	t.Helper()

	var buf bytes.Buffer
	dataSize := len(samples) * 2
	write := func(v any) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}

	buf.WriteString("RIFF")
	write(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1))
	write(uint16(1))
	write(uint32(sampleRate))
	write(uint32(sampleRate * 2))
	write(uint16(2))
	write(uint16(16))
	buf.WriteString("data")
	write(uint32(dataSize))
	write(samples)
	return buf.Bytes()
}
