package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"auto-responder/internal/config"
	"auto-responder/internal/history"
	"auto-responder/internal/storage"
)

type replier interface {
	Respond(ctx context.Context, userMessage, userName string, entries []history.Entry) (reply, senderType string)
}

type transcriber interface {
	Transcribe(ctx context.Context, audioPath string) string
}

type synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Bot is the messaging gateway plus the per-message controller. Updates
// are processed strictly one at a time.
type Bot struct {
	api    *tgbotapi.BotAPI
	s      sender
	files  fileGetter
	token  string
	selfID int64

	cfg   *config.Config
	store storage.Store
	rsp   replier
	stt   transcriber
	tts   synthesizer

	// Test seams: pacing sleep and voice download.
	sleep         func(d time.Duration)
	downloadVoice func(ctx context.Context, fileID string) (string, error)
}

func New(cfg *config.Config, store storage.Store, rsp replier, stt transcriber, tts synthesizer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := &Bot{
		api:    api,
		s:      botAPISender{api: api},
		files:  botAPISender{api: api},
		token:  api.Token,
		selfID: api.Self.ID,
		cfg:    cfg,
		store:  store,
		rsp:    rsp,
		stt:    stt,
		tts:    tts,
		sleep:  time.Sleep,
	}
	b.downloadVoice = b.fetchVoiceFile
	return b, nil
}

// Start consumes the update channel until Stop is called. One handler
// invocation runs per inbound event; there is no concurrent processing.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	log.WithField("account", b.api.Self.UserName).Info("auto-responder started")

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		if update.Message == nil {
			continue
		}
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// fetchVoiceFile downloads a voice attachment to a temporary file owned by
// the caller.
func (b *Bot) fetchVoiceFile(ctx context.Context, fileID string) (string, error) {
	file, err := b.files.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.token), nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download voice file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download voice file: status %d", resp.StatusCode)
	}

	path := filepath.Join(os.TempDir(), uuid.New().String()+".oga")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create voice file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write voice file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close voice file: %w", err)
	}
	return path, nil
}
