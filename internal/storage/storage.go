package storage

import (
	"context"
	"time"

	"auto-responder/internal/history"
)

// Chat channel kinds recorded with each conversation row.
const (
	ChatPrivate = "private"
	ChatGroup   = "group"
)

// SenderTypeUnknown is the default sender-type label before classification.
const SenderTypeUnknown = "unknown"

// Conversation is one append-only row of the conversation log. Rows are
// never updated or deleted.
type Conversation struct {
	ID          int64
	UserID      int64
	ChatID      int64
	UserMessage string
	BotResponse string
	CreatedAt   time.Time
	MessageType string
	UserType    string
}

// Session is the per-user record holding the bounded rolling history. It is
// replaced wholesale on every contact.
type Session struct {
	UserID       int64
	FirstName    string
	Username     string
	LastSeen     time.Time
	MessageCount int64
	History      []history.Entry
	UserType     string
}

// Store owns the conversation log and the session table. Implementations
// must treat a malformed stored history as empty rather than an error.
type Store interface {
	// Init creates the schema and applies the additive user_type column
	// migration; safe to run on every startup.
	Init(ctx context.Context) error

	// Record appends one conversation row. Failures propagate to the caller.
	Record(ctx context.Context, userID, chatID int64, userMessage, botResponse, messageType, userType string) error

	// GetHistory returns the stored rolling history, or an empty slice when
	// the session is absent or its payload is corrupt.
	GetHistory(ctx context.Context, userID int64) ([]history.Entry, error)

	// UpsertSession replaces the session row; message_count becomes the
	// prior count plus one, or one when no prior row exists.
	UpsertSession(ctx context.Context, userID int64, firstName, username string, entries []history.Entry, userType string) error

	// ConversationsSince returns log rows recorded at or after the given
	// time, in chronological order.
	ConversationsSince(ctx context.Context, since time.Time) ([]Conversation, error)
}
