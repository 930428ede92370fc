package internal

import "time"

// CreateTestSession creates a test session with a two-turn history
func CreateTestSession(name string) *Session {
	s := NewSession(name)
	s.Messages = CreateTestMessages()
	return s
}

// CreateTestMessages returns a sample two-turn conversation
func CreateTestMessages() []Message {
	return []Message{
		{
			Role:      RoleUser,
			Content:   "Hello, how are you?",
			Timestamp: time.Now().Truncate(time.Second),
		},
		{
			Role:      RoleAssistant,
			Content:   "I'm doing well, thank you!",
			Timestamp: time.Now().Truncate(time.Second),
		},
	}
}
