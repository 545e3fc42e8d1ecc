package history

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one half of an exchange with an explicit role. Earlier versions
// persisted a flat list of strings and inferred roles from list position;
// Decode still accepts that form.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Append records a completed exchange at the end of the history.
func Append(entries []Entry, userText, botText string) []Entry {
	entries = append(entries,
		Entry{Role: RoleUser, Content: userText},
		Entry{Role: RoleAssistant, Content: botText},
	)
	return entries
}

// Trim bounds the history to its max most recent entries. max <= 0 keeps
// everything.
func Trim(entries []Entry, max int) []Entry {
	if max <= 0 || len(entries) <= max {
		return entries
	}
	return entries[len(entries)-max:]
}

// Tail returns up to the n most recent entries.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// Encode marshals entries into the stored JSON form. An empty history
// encodes as "[]", matching the column default.
func Encode(entries []Entry) string {
	if len(entries) == 0 {
		return "[]"
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Decode parses a stored history payload. It accepts the current
// role-tagged form and the legacy flat string list (even positions are user
// messages, odd positions assistant replies). A malformed payload yields an
// empty history, never an error.
func Decode(raw string) []Entry {
	if raw == "" {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err == nil && wellFormed(entries) {
		return entries
	}

	var legacy []string
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return nil
	}
	out := make([]Entry, 0, len(legacy))
	for i, text := range legacy {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		out = append(out, Entry{Role: role, Content: text})
	}
	return out
}

// wellFormed rejects object decodes that only succeeded structurally, e.g.
// a flat string array unmarshalled into zero-valued entries.
func wellFormed(entries []Entry) bool {
	for _, e := range entries {
		if e.Role != RoleUser && e.Role != RoleAssistant {
			return false
		}
	}
	return true
}
