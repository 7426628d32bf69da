package api

import (
	"fmt"
	"strings"
	"time"
)

// Time unmarshals the timestamp formats the backend emits. The API is
// not consistent: some rows carry a zone offset, some are bare ISO8601.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("parse time %q: %w", s, lastErr)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// User is the profile returned by the identity check.
type User struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Email is one analyzed message as stored by the backend. The client
// never patches a single email; the whole list is re-fetched instead.
type Email struct {
	ID             int    `json:"id"`
	GmailID        string `json:"gmail_id"`
	Subject        string `json:"subject"`
	Sender         string `json:"sender"`
	Snippet        string `json:"snippet"`
	Body           string `json:"body"`
	ReceivedTime   Time   `json:"received_time"`
	Summary        string `json:"summary"`
	Intent         string `json:"intent"`
	UrgencyScore   int    `json:"urgency_score"`
	RiskLevel      string `json:"risk_level"`
	Priority       string `json:"priority"`
	RequiresAction bool   `json:"requires_action"`
	IsRead         bool   `json:"is_read"`
	SuggestedReply string `json:"suggested_reply"`
	Sentiment      string `json:"sentiment"`
	Tone           string `json:"tone"`
}

// Insight returns the one-line AI summary for an email, falling back
// to a snippet prefix when the analyzer produced none.
func (e Email) Insight() string {
	if e.Summary != "" {
		return e.Summary
	}
	if len(e.Snippet) > 100 {
		return e.Snippet[:100] + "..."
	}
	return e.Snippet
}

type Meeting struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	StartTime    Time   `json:"start_time"`
	EndTime      Time   `json:"end_time"`
	Participants string `json:"participants"`
	Status       string `json:"status"`
}

// Upcoming reports whether the meeting has not yet ended.
func (m Meeting) Upcoming(now time.Time) bool {
	return !m.EndTime.Before(now)
}

// Chat message senders.
const (
	SenderUser   = "user"
	SenderAgent  = "agent"
	SenderSystem = "system"
)

type ChatMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp *Time  `json:"timestamp,omitempty"`
}

// SyncResult is the response of POST /api/sync.
type SyncResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// RewriteStyle selects how the agent reworks a draft.
type RewriteStyle string

const (
	StyleFormal     RewriteStyle = "formal"
	StyleCasual     RewriteStyle = "casual"
	StyleShorten    RewriteStyle = "shorten"
	StyleFixGrammar RewriteStyle = "fix_grammar"
)
