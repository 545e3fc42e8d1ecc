package storage

import (
	"context"
	"sync"
	"time"

	"auto-responder/internal/history"
)

// MemoryStore keeps the conversation log and sessions in process memory.
// It backs tests and mirrors the Postgres semantics, including the
// lenient history decoding.
type MemoryStore struct {
	mu            sync.Mutex
	conversations []Conversation
	sessions      map[int64]*memorySession
	nextID        int64
}

type memorySession struct {
	firstName    string
	username     string
	lastSeen     time.Time
	messageCount int64
	historyRaw   string
	userType     string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*memorySession)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Init(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Record(ctx context.Context, userID, chatID int64, userMessage, botResponse, messageType, userType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.conversations = append(s.conversations, Conversation{
		ID:          s.nextID,
		UserID:      userID,
		ChatID:      chatID,
		UserMessage: userMessage,
		BotResponse: botResponse,
		CreatedAt:   time.Now().UTC(),
		MessageType: messageType,
		UserType:    userType,
	})
	return nil
}

func (s *MemoryStore) GetHistory(ctx context.Context, userID int64) ([]history.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return history.Decode(sess.historyRaw), nil
}

func (s *MemoryStore) UpsertSession(ctx context.Context, userID int64, firstName, username string, entries []history.Entry, userType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := int64(1)
	if prev, ok := s.sessions[userID]; ok {
		count = prev.messageCount + 1
	}
	s.sessions[userID] = &memorySession{
		firstName:    firstName,
		username:     username,
		lastSeen:     time.Now().UTC(),
		messageCount: count,
		historyRaw:   history.Encode(entries),
		userType:     userType,
	}
	return nil
}

func (s *MemoryStore) ConversationsSince(ctx context.Context, since time.Time) ([]Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Conversation
	for _, c := range s.conversations {
		if !c.CreatedAt.Before(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Session returns a copy of the stored session, for tests and reporting.
func (s *MemoryStore) Session(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return Session{
		UserID:       userID,
		FirstName:    sess.firstName,
		Username:     sess.username,
		LastSeen:     sess.lastSeen,
		MessageCount: sess.messageCount,
		History:      history.Decode(sess.historyRaw),
		UserType:     sess.userType,
	}, true
}

// SetRawHistory stores an arbitrary history payload, for corruption tests.
func (s *MemoryStore) SetRawHistory(userID int64, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &memorySession{}
		s.sessions[userID] = sess
	}
	sess.historyRaw = raw
}
