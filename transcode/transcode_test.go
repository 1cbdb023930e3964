package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// pcm16WAV builds a 16-bit PCM WAV file from interleaved samples
func pcm16WAV(t *testing.T, sampleRate, channels int, samples []int16) []byte {
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
	write(uint16(channels))
	write(uint32(sampleRate))
	write(uint32(sampleRate * channels * 2))
	write(uint16(channels * 2))
	write(uint16(16))
	buf.WriteString("data")
	write(uint32(dataSize))
	write(samples)
	return buf.Bytes()
}

func TestDecodeWAVMixesToMono(t *testing.T) {
	data := pcm16WAV(t, 8000, 2, []int16{
		16384, -16384,
		16384, 16384,
		0, 0,
		-16384, -16384,
	})

	audio, err := DecodeWAV(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 8000, audio.SampleRate)
	assert.Equal(t, 2, audio.Channels)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0, -0.5}, audio.PCM, 1e-3)
}

func TestDecodeWAVRejectsOversizedDataChunk(t *testing.T) {
	data := pcm16WAV(t, 8000, 1, []int16{100, 200, 300, 400})
	// data chunk length claims 4 GiB
	binary.LittleEndian.PutUint32(data[40:44], math.MaxUint32)

	audio, err := DecodeWAV(bytes.NewReader(data))
	assert.Nil(t, audio)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Contains(t, err.Error(), "truncated")
}

func TestAudioLoaderLoadsWAVFile(t *testing.T) {
	samples := make([]int16, 800)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*float64(i)/8))
	}
	path := filepath.Join(t.TempDir(), "tone.WAV")
	require.NoError(t, os.WriteFile(path, pcm16WAV(t, 8000, 1, samples), 0o644))

	loader := NewAudioLoader(nil)
	audio, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, audio.PCM, 800)
	assert.Equal(t, 100*time.Millisecond, audio.Duration)

	limited := NewAudioLoader(&DecoderConfig{Timeout: time.Second, MaxDuration: 50 * time.Millisecond})
	audio, err = limited.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, audio.PCM, 400)
}

func TestAudioLoaderRejects(t *testing.T) {
	loader := NewAudioLoader(nil)

	_, err := loader.Load(context.Background(), "notes.txt")
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, err = loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	_, err = DecodeWAV(bytes.NewReader([]byte("not a wav file at all")))
	assert.Error(t, err)
}

func TestDecoderConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultDecoderConfig().Validate())
	assert.Error(t, (&DecoderConfig{}).Validate())
	assert.Error(t, (&DecoderConfig{Timeout: time.Second, TargetSampleRate: -1}).Validate())
}

func TestParseFFprobeOutput(t *testing.T) {
	meta, err := parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":2,"duration":"3.5"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 44100, meta.SampleRate)
	assert.Equal(t, 2, meta.Channels)
	assert.Equal(t, "mp3", meta.Codec)
	assert.Equal(t, 3.5, meta.Duration)

	_, err = parseFFprobeOutput([]byte(`{"streams":[]}`))
	assert.Error(t, err)
	_, err = parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"video","sample_rate":"0","channels":0}]}`))
	assert.Error(t, err)
	_, err = parseFFprobeOutput([]byte(`not json`))
	assert.Error(t, err)
}

func TestBytesToFloat64(t *testing.T) {
	buf := make([]byte, 0, 20)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(0.25))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(-1))
	buf = append(buf, 1, 2, 3)

	assert.Equal(t, []float64{0.25, -1}, bytesToFloat64(buf))
	assert.Empty(t, bytesToFloat64(nil))
}

func TestImageLoaderResizesToGrayscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	path := filepath.Join(t.TempDir(), "flat.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	m, err := NewImageLoader(4).Load(path)
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			assert.InDelta(t, 200, m.At(r, c), 1)
		}
	}

	m, err = NewImageLoader(0).Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, _ = m.Dims()
	assert.Equal(t, DefaultImageSize, rows)

	_, err = NewImageLoader(4).Decode(bytes.NewReader([]byte("garbage")))
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestGrayDenseConversion(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{-5, 0, 127.6, 255, 300, math.NaN()})
	img := DenseToGray(m)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	back := GrayToDense(img)
	assert.Equal(t, []float64{0, 0, 128, 255, 255, 0}, back.RawMatrix().Data)

	empty := DenseToGray((*mat.Dense)(nil))
	assert.True(t, empty.Bounds().Empty())
	assert.True(t, GrayToDense(empty).IsEmpty())
}
