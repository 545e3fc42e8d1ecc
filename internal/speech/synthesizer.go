package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
)

type speechAPI interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Synthesizer renders reply text as a voice recording through the TTS
// model/voice configuration.
type Synthesizer struct {
	api   speechAPI
	model string
	voice string
}

func NewSynthesizer(api speechAPI, model, voice string) *Synthesizer {
	return &Synthesizer{api: api, model: model, voice: voice}
}

// Synthesize writes the generated audio to a temporary file and returns its
// path. The caller owns the file and deletes it after use.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	resp, err := s.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.model),
		Input: text,
		Voice: openai.SpeechVoice(s.voice),
	})
	if err != nil {
		return "", fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	outPath := filepath.Join(os.TempDir(), uuid.New().String()+".mp3")
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, resp); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return "", fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("close audio file: %w", err)
	}
	return outPath, nil
}
