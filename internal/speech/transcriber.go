package speech

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// Fixed placeholders substituted for voice content when transcription
// cannot proceed. They are returned as message text, never as errors.
const (
	PlaceholderNoConverter     = "[Voice message - audio conversion not available (ffmpeg required)]"
	PlaceholderConvertFailed   = "[Voice message - audio conversion failed]"
	PlaceholderTranscribeError = "[Voice message - transcription failed]"
)

type transcriptionAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Transcriber converts a voice recording to text: ffmpeg re-encodes the
// input to a mono 16kHz 16-bit PCM waveform, then the Whisper deployment
// transcribes it.
type Transcriber struct {
	api        transcriptionAPI
	deployment string

	ffmpegPath      string
	ffmpegAvailable bool
}

func NewTranscriber(api transcriptionAPI, whisperDeployment string) *Transcriber {
	return newTranscriberWithFFmpeg(api, whisperDeployment, "ffmpeg")
}

func newTranscriberWithFFmpeg(api transcriptionAPI, whisperDeployment, ffmpegPath string) *Transcriber {
	t := &Transcriber{
		api:        api,
		deployment: whisperDeployment,
		ffmpegPath: ffmpegPath,
	}
	t.ffmpegAvailable = exec.Command(ffmpegPath, "-version").Run() == nil
	if !t.ffmpegAvailable {
		log.Warn("ffmpeg not found, voice messages will not be transcribed")
	}
	return t
}

// Available reports whether the local re-encoding tool was found.
func (t *Transcriber) Available() bool {
	return t.ffmpegAvailable
}

// Transcribe returns the recognized text, or one of the fixed placeholders
// when the tool is missing, re-encoding fails, or the transcription call
// fails. The temporary waveform is removed on every exit path.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) string {
	if !t.ffmpegAvailable {
		return PlaceholderNoConverter
	}

	wavPath := filepath.Join(os.TempDir(), uuid.New().String()+".wav")
	defer func() {
		if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Debug("cannot remove temporary waveform")
		}
	}()

	if err := t.convertToWAV(ctx, audioPath, wavPath); err != nil {
		log.WithError(err).Error("audio conversion failed")
		return PlaceholderConvertFailed
	}

	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.deployment,
		FilePath: wavPath,
	})
	if err != nil {
		log.WithError(err).Error("speech-to-text call failed")
		return PlaceholderTranscribeError
	}
	return resp.Text
}

func (t *Transcriber) convertToWAV(ctx context.Context, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-i", inPath,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outPath,
	)
	if err := cmd.Run(); err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err != nil {
		return err
	}
	return nil
}
