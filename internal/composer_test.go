package internal

import (
	"strings"
	"testing"
)

func TestComposer_NoContext(t *testing.T) {
	c := NewComposer()
	history := CreateTestMessages()

	payload := c.Compose(history, "What next?", "")

	if len(payload) != 3 {
		t.Fatalf("Compose() returned %d messages, want 3", len(payload))
	}
	for i, m := range history {
		if payload[i].Role != m.Role || payload[i].Content != m.Content {
			t.Errorf("Compose()[%d] = %+v, want prior turn %+v", i, payload[i], m)
		}
	}
	last := payload[len(payload)-1]
	if last.Role != RoleUser || last.Content != "What next?" {
		t.Errorf("Compose() last = %+v, want plain user turn", last)
	}
}

func TestComposer_WithContext(t *testing.T) {
	c := NewComposer()

	payload := c.Compose(nil, "What does it say?", "extracted document text")

	if len(payload) != 1 {
		t.Fatalf("Compose() returned %d messages, want 1", len(payload))
	}
	content := payload[0].Content
	if !strings.Contains(content, "CONTEXT:\n---\nextracted document text\n---") {
		t.Errorf("Compose() must wrap context in a marked block, got %q", content)
	}
	if !strings.Contains(content, "QUESTION: What does it say?") {
		t.Errorf("Compose() must keep the literal question, got %q", content)
	}
	if !strings.Contains(content, "only answer the question") {
		t.Errorf("Compose() must instruct the model not to restate context, got %q", content)
	}
}

func TestComposer_TruncatesOldestFirst(t *testing.T) {
	c := &Composer{HistoryLimit: 4}

	var history []Message
	for i := 0; i < 10; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history = append(history, Message{Role: role, Content: strings.Repeat("t", i+1)})
	}

	payload := c.Compose(history, "newest question", "")

	if len(payload) != 5 {
		t.Fatalf("Compose() returned %d messages, want 4 prior + 1 new", len(payload))
	}
	// The 4 kept turns are the most recent ones.
	for i := 0; i < 4; i++ {
		want := history[len(history)-4+i]
		if payload[i].Content != want.Content {
			t.Errorf("Compose()[%d] = %q, want %q", i, payload[i].Content, want.Content)
		}
	}
	if payload[4].Content != "newest question" {
		t.Error("Compose() must never drop the new user turn")
	}
}

func TestComposer_DoesNotMutateHistory(t *testing.T) {
	c := NewComposer()
	history := CreateTestMessages()
	original := make([]Message, len(history))
	copy(original, history)

	_ = c.Compose(history, "question", "some context")

	if !messagesEqual(history, original) {
		t.Error("Compose() must not mutate the session's stored history")
	}
}

func TestComposer_ContextIsTransient(t *testing.T) {
	// The augmented text lives only in the payload; the caller persists the
	// original user text. Composing the same turn again without context
	// yields a payload free of the context block.
	c := NewComposer()
	history := []Message{{Role: RoleUser, Content: "original question"}}

	first := c.Compose(nil, "original question", "doc text")
	second := c.Compose(history, "follow-up", "")

	if !strings.Contains(first[0].Content, "doc text") {
		t.Fatal("first Compose() should carry the context")
	}
	for _, m := range second {
		if strings.Contains(m.Content, "doc text") || strings.Contains(m.Content, "CONTEXT:") {
			t.Errorf("follow-up payload must carry no injected context, got %q", m.Content)
		}
	}
}
