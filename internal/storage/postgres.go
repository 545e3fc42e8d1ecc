package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"auto-responder/internal/history"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// PGStore is the Postgres-backed conversation store.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

var _ Store = (*PGStore)(nil)

// Schema setup plus the additive user_type migration. ADD COLUMN IF NOT
// EXISTS keeps repeated startups side-effect-free.
var initStatements = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL,
		chat_id      BIGINT NOT NULL,
		user_message TEXT NOT NULL,
		bot_response TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		message_type TEXT NOT NULL DEFAULT 'private'
	)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		user_id              BIGINT PRIMARY KEY,
		first_name           TEXT NOT NULL DEFAULT '',
		username             TEXT NOT NULL DEFAULT '',
		last_seen            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		message_count        BIGINT NOT NULL DEFAULT 0,
		conversation_history TEXT NOT NULL DEFAULT '[]'
	)`,
	`ALTER TABLE conversations ADD COLUMN IF NOT EXISTS user_type TEXT NOT NULL DEFAULT 'unknown'`,
	`ALTER TABLE user_sessions ADD COLUMN IF NOT EXISTS user_type TEXT NOT NULL DEFAULT 'unknown'`,
}

func (s *PGStore) Init(ctx context.Context) error {
	for _, stmt := range initStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("storage: init schema: %w", err)
		}
	}
	return nil
}

func (s *PGStore) Record(ctx context.Context, userID, chatID int64, userMessage, botResponse, messageType, userType string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO conversations (user_id, chat_id, user_message, bot_response, message_type, user_type)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, chatID, userMessage, botResponse, messageType, userType,
	)
	if err != nil {
		return fmt.Errorf("storage: record conversation: %w", err)
	}
	return nil
}

func (s *PGStore) GetHistory(ctx context.Context, userID int64) ([]history.Entry, error) {
	var raw string
	err := s.db.QueryRow(ctx,
		`SELECT conversation_history FROM user_sessions WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: get history: %w", err)
	}
	return history.Decode(raw), nil
}

// UpsertSession replaces the session row in a single statement; the
// message count read-modify-write happens inside the upsert so no prior
// SELECT is needed.
func (s *PGStore) UpsertSession(ctx context.Context, userID int64, firstName, username string, entries []history.Entry, userType string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO user_sessions (user_id, first_name, username, last_seen, message_count, conversation_history, user_type)
		 VALUES ($1, $2, $3, NOW(), 1, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
			first_name           = EXCLUDED.first_name,
			username             = EXCLUDED.username,
			last_seen            = NOW(),
			message_count        = user_sessions.message_count + 1,
			conversation_history = EXCLUDED.conversation_history,
			user_type            = EXCLUDED.user_type`,
		userID, firstName, username, history.Encode(entries), userType,
	)
	if err != nil {
		return fmt.Errorf("storage: upsert session: %w", err)
	}
	return nil
}

func (s *PGStore) ConversationsSince(ctx context.Context, since time.Time) ([]Conversation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, chat_id, user_message, bot_response, created_at, message_type, user_type
		 FROM conversations WHERE created_at >= $1 ORDER BY id ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: list conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.ChatID, &c.UserMessage, &c.BotResponse, &c.CreatedAt, &c.MessageType, &c.UserType); err != nil {
			return nil, fmt.Errorf("storage: scan conversation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list conversations: %w", err)
	}
	return out, nil
}
