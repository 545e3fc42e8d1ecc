package analytics

import (
	"strings"
	"testing"
	"time"

	"auto-responder/internal/storage"
)

func row(userID int64, at time.Time, userType, channel string) storage.Conversation {
	return storage.Conversation{
		UserID:      userID,
		CreatedAt:   at,
		UserType:    userType,
		MessageType: channel,
	}
}

func TestSummarize_CountsDayOnly(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	rows := []storage.Conversation{
		row(1, day, "friend", storage.ChatPrivate),
		row(1, day.Add(time.Hour), "customer", storage.ChatPrivate),
		row(2, day.Add(2*time.Hour), "customer", storage.ChatGroup),
		row(3, day.AddDate(0, 0, -1), "friend", storage.ChatPrivate), // previous day
		row(4, day.AddDate(0, 0, 1), "friend", storage.ChatPrivate),  // next day
	}

	stats := Summarize(rows, day)
	if stats.Date != "2025-03-10" {
		t.Errorf("date = %q", stats.Date)
	}
	if stats.TotalMessages != 3 {
		t.Errorf("total = %d, want 3", stats.TotalMessages)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("unique = %d, want 2", stats.UniqueUsers)
	}
	if stats.BySenderType["customer"] != 2 || stats.BySenderType["friend"] != 1 {
		t.Errorf("by sender type: %+v", stats.BySenderType)
	}
	if stats.ByChannel[storage.ChatGroup] != 1 {
		t.Errorf("by channel: %+v", stats.ByChannel)
	}
}

func TestFormat(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	stats := Summarize([]storage.Conversation{
		row(1, day, "friend", storage.ChatPrivate),
		row(2, day, "customer", storage.ChatPrivate),
	}, day)

	out := stats.Format()
	if !strings.Contains(out, "2 messages from 2 users") {
		t.Errorf("unexpected summary: %q", out)
	}
	if !strings.Contains(out, "customer=1") || !strings.Contains(out, "friend=1") {
		t.Errorf("sender-type breakdown missing: %q", out)
	}
}

func TestFormat_EmptyDay(t *testing.T) {
	stats := Summarize(nil, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if !strings.Contains(stats.Format(), "(none)") {
		t.Errorf("empty breakdown: %q", stats.Format())
	}
}
