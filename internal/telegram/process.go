package telegram

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"auto-responder/internal/history"
	"auto-responder/internal/storage"
)

// Placeholders recorded when a voice attachment never reaches transcription.
const (
	placeholderDownloadFailed = "[Voice message - download failed]"
	placeholderMediaSticker   = "[Media/Sticker]"
)

// handleMessage is the top-level recovery boundary: an error escaping any
// pipeline stage is logged and the event dropped, never retried.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.process(ctx, msg); err != nil {
		fields := log.Fields{"chat_id": msg.Chat.ID}
		if msg.From != nil {
			fields["user_id"] = msg.From.ID
		}
		log.WithError(err).WithFields(fields).Error("failed to handle message, dropping event")
	}
}

func (b *Bot) process(ctx context.Context, msg *tgbotapi.Message) error {
	if b.shouldIgnore(msg) {
		return nil
	}

	userName := displayName(msg.From)
	content, isVoice := b.extractContent(ctx, msg)

	messageType := storage.ChatPrivate
	if !msg.Chat.IsPrivate() {
		messageType = storage.ChatGroup
	}

	log.WithFields(log.Fields{
		"user_id": msg.From.ID,
		"user":    userName,
		"chat":    messageType,
		"voice":   isVoice,
	}).Info("incoming message")

	entries, err := b.store.GetHistory(ctx, msg.From.ID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	rctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
	reply, senderType := b.rsp.Respond(rctx, content, userName, entries)
	cancel()

	b.sleep(b.cfg.ResponseDelay)

	if err := b.deliver(ctx, msg.Chat.ID, reply, isVoice); err != nil {
		return fmt.Errorf("deliver reply: %w", err)
	}

	if err := b.store.Record(ctx, msg.From.ID, msg.Chat.ID, content, reply, messageType, senderType); err != nil {
		return fmt.Errorf("record conversation: %w", err)
	}
	entries = history.Trim(history.Append(entries, content, reply), b.cfg.MaxHistoryLength)
	if err := b.store.UpsertSession(ctx, msg.From.ID, msg.From.FirstName, msg.From.UserName, entries, senderType); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":     msg.From.ID,
		"sender_type": senderType,
	}).Info("reply sent")
	return nil
}

func (b *Bot) shouldIgnore(msg *tgbotapi.Message) bool {
	if !b.cfg.AutoRespond {
		return true
	}
	if msg.From == nil || msg.From.ID == b.selfID {
		return true
	}
	if !msg.Chat.IsPrivate() && !b.cfg.RespondToGroups {
		return true
	}
	return false
}

// extractContent normalizes the inbound message into the text handed to the
// responder. Voice notes are downloaded and transcribed; every voice failure
// collapses to a placeholder so the pipeline keeps going.
func (b *Bot) extractContent(ctx context.Context, msg *tgbotapi.Message) (string, bool) {
	if msg.Voice != nil {
		return b.extractVoice(ctx, msg.Voice.FileID), true
	}
	if msg.Text != "" {
		return msg.Text, false
	}
	return placeholderMediaSticker, false
}

func (b *Bot) extractVoice(ctx context.Context, fileID string) string {
	dctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
	path, err := b.downloadVoice(dctx, fileID)
	cancel()
	if err != nil {
		log.WithError(err).Warn("voice download failed")
		return placeholderDownloadFailed
	}
	defer os.Remove(path)

	tctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
	defer cancel()
	return "[Voice message]: " + b.stt.Transcribe(tctx, path)
}

// deliver answers in kind: voice in, voice out. A synthesis or voice-send
// failure downgrades to a plain text reply instead of dropping the event.
func (b *Bot) deliver(ctx context.Context, chatID int64, reply string, asVoice bool) error {
	if asVoice {
		sctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
		path, err := b.tts.Synthesize(sctx, reply)
		cancel()
		if err != nil {
			log.WithError(err).Warn("voice synthesis failed, sending text instead")
			return b.sendText(chatID, reply)
		}
		defer os.Remove(path)

		if _, err := b.s.Send(tgbotapi.NewVoice(chatID, tgbotapi.FilePath(path))); err != nil {
			log.WithError(err).Warn("voice send failed, sending text instead")
			return b.sendText(chatID, reply)
		}
		return nil
	}
	return b.sendText(chatID, reply)
}

func (b *Bot) sendText(chatID int64, text string) error {
	_, err := b.s.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return "User"
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	if name == "" && user.UserName != "" {
		name = "@" + user.UserName
	}
	if name == "" {
		name = "User"
	}
	return name
}
