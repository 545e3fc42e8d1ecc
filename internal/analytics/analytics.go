package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"auto-responder/internal/storage"
)

// DailyStats aggregates one day of handled conversations.
type DailyStats struct {
	Date          string
	TotalMessages int
	UniqueUsers   int
	BySenderType  map[string]int
	ByChannel     map[string]int
}

// Summarize aggregates the rows that fall on targetDate's day.
func Summarize(rows []storage.Conversation, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:         startOfDay.Format("2006-01-02"),
		BySenderType: make(map[string]int),
		ByChannel:    make(map[string]int),
	}

	uniqueUsers := make(map[int64]bool)
	for _, row := range rows {
		if row.CreatedAt.Before(startOfDay) || !row.CreatedAt.Before(endOfDay) {
			continue
		}
		stats.TotalMessages++
		uniqueUsers[row.UserID] = true
		stats.BySenderType[row.UserType]++
		stats.ByChannel[row.MessageType]++
	}
	stats.UniqueUsers = len(uniqueUsers)
	return stats
}

// Format renders the stats as a single log-friendly line.
func (s *DailyStats) Format() string {
	var parts []string
	for _, label := range sortedKeys(s.BySenderType) {
		parts = append(parts, fmt.Sprintf("%s=%d", label, s.BySenderType[label]))
	}
	byType := strings.Join(parts, " ")
	if byType == "" {
		byType = "none"
	}
	return fmt.Sprintf("%s: %d messages from %d users (%s)", s.Date, s.TotalMessages, s.UniqueUsers, byType)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
