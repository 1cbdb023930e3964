package cli

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-workbench/logging"
	"github.com/RyanBlaney/sonido-workbench/transcode"
)

func newAudioCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio <file>",
		Short: "Analyse the spectrum of an audio file",
		Long: `Decode an audio file to mono and report its Fourier and cosine spectra,
optionally after an ideal filter.

WAV files are decoded in-process. Other formats (mp3, flac, ogg, opus, m4a,
aac, wma) are decoded with ffmpeg.

Examples:
  # Spectrum of the first two seconds of a recording
  workbench audio speech.wav --max-duration 2s

  # Remove everything above 1 kHz, report as JSON
  workbench audio music.mp3 --filter lowpass --cutoff 1000 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAudio(cmd, args[0])
		},
	}

	cmd.Flags().String("ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	cmd.Flags().Duration("timeout", 0, "decode timeout (default from config, 30s)")
	cmd.Flags().Duration("max-duration", 0, "analyse at most this much audio (0 for all)")
	addWindowFlag(cmd)
	addFilterFlags(cmd)
	addReportFlags(cmd)
	return cmd
}

func (a *app) runAudio(cmd *cobra.Command, path string) error {
	loader := transcode.NewAudioLoader(&a.config.Decoder)
	audio, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	a.logger.Info("Audio loaded", logging.Fields{
		"path":        path,
		"samples":     len(audio.PCM),
		"sample_rate": audio.SampleRate,
		"channels":    audio.Channels,
		"duration":    audio.Duration.String(),
	})

	session, err := a.newSession()
	if err != nil {
		return err
	}
	if err := session.LoadAudio(audio.PCM, float64(audio.SampleRate)); err != nil {
		return err
	}
	if err := session.Compute(); err != nil {
		return err
	}
	if err := a.applyFilter(session); err != nil {
		return err
	}
	return a.emitReport(session)
}
