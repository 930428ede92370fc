package internal

import "fmt"

// ChatMessage is the role-tagged wire shape the model service accepts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// contextTemplate separates extracted document text from the question and
// tells the model not to restate the context.
const contextTemplate = "You are an assistant that answers based on the provided context. " +
	"Do not repeat the context; only answer the question.\n\n" +
	"CONTEXT:\n---\n%s\n---\n\nQUESTION: %s"

// Composer merges prior turns, optional extracted context and the new user
// text into a model request. It never mutates the history it is given: the
// context-augmented text is a transient view, the session keeps the user's
// original words.
type Composer struct {
	// HistoryLimit caps how many prior turns are included, oldest dropped
	// first. The new user turn is never dropped.
	HistoryLimit int
}

// NewComposer returns a composer with the default history cap.
func NewComposer() *Composer {
	return &Composer{HistoryLimit: DefaultHistoryLimit}
}

// Compose builds the request payload for one user turn.
func (c *Composer) Compose(history []Message, userText, context string) []ChatMessage {
	limit := c.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	payload := make([]ChatMessage, 0, len(history)+1)
	for _, m := range history {
		payload = append(payload, ChatMessage{Role: m.Role, Content: m.Content})
	}

	final := userText
	if context != "" {
		final = fmt.Sprintf(contextTemplate, context, userText)
	}
	return append(payload, ChatMessage{Role: RoleUser, Content: final})
}
