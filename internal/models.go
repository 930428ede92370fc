package internal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles. The model service only understands these two; anything else
// is normalized before it reaches the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	// DefaultSessionName is used when a sanitized name comes out empty.
	DefaultSessionName = "Untitled"

	// MaxNameLength bounds sanitized session names.
	MaxNameLength = 64

	// DefaultTitleLimit is the number of characters of the first user
	// message used to derive a session title.
	DefaultTitleLimit = 40

	// DefaultHistoryLimit is the number of prior turns kept when composing
	// a model request.
	DefaultHistoryLimit = 10
)

// Message is a single turn in a conversation. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Session is a named, persisted conversation.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates an empty session with a fresh ID. The name is sanitized
// before use.
func NewSession(name string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Name:      SanitizeName(name),
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}
}

// Append adds a turn to the session history and returns it.
func (s *Session) Append(role, content string) Message {
	msg := Message{Role: role, Content: content, Timestamp: time.Now()}
	s.Messages = append(s.Messages, msg)
	return msg
}

// SessionInfo is a listing entry for the session picker.
type SessionInfo struct {
	Name         string    `json:"name"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SanitizeName restricts a display name to alphanumerics plus space,
// underscore, hyphen and dot, bounded by MaxNameLength. The dot is allowed so
// derived titles keep their ellipsis marker. Names that strip down to nothing
// fall back to DefaultSessionName.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if len(s) > MaxNameLength {
		s = strings.TrimSpace(s[:MaxNameLength])
	}
	if s == "" {
		return DefaultSessionName
	}
	return s
}

// DeriveTitle builds a session title from the first user message: the first
// limit characters, with an ellipsis marker when truncated.
func DeriveTitle(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultTitleLimit
	}
	t := SanitizeName(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(t)
	if len(runes) > limit {
		t = strings.TrimSpace(string(runes[:limit])) + "..."
	}
	return t
}
