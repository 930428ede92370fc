package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrEmptyMessage is returned when a submission contains no text.
var ErrEmptyMessage = errors.New("message is empty")

// Controller owns the active session and orchestrates extractor, composer,
// client and store for each user turn. One Controller serves one user; at
// most one model request is in flight per session, enforced by the busy flag.
type Controller struct {
	store     SessionStore
	client    ModelClient
	extractor Extractor
	composer  *Composer

	titleLimit int

	mu           sync.Mutex
	session      *Session
	firstMessage bool
	attachment   *PendingAttachment
	busy         bool
}

// NewController wires a controller from its injected dependencies.
func NewController(store SessionStore, client ModelClient, extractor Extractor, cfg Config) *Controller {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	titleLimit := cfg.TitleLimit
	if titleLimit <= 0 {
		titleLimit = DefaultTitleLimit
	}
	return &Controller{
		store:      store,
		client:     client,
		extractor:  extractor,
		composer:   &Composer{HistoryLimit: limit},
		titleLimit: titleLimit,
	}
}

// NewChat starts a fresh session and makes it active. Nothing is persisted
// until the first exchange completes.
func (c *Controller) NewChat() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newChatLocked()
}

func (c *Controller) newChatLocked() *Session {
	name := fmt.Sprintf("New Chat %s", time.Now().Format("15-04-05"))
	c.session = NewSession(name)
	c.firstMessage = true
	c.attachment = nil
	return c.session
}

// Choose makes a stored session active. A missing record becomes an empty
// history rather than an error.
func (c *Controller) Choose(name string) error {
	found := true
	messages, err := c.store.Load(name)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		LogWarn("Session %q not found, starting with empty history", name)
		messages = nil
		found = false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	session := NewSession(name)
	session.Messages = messages
	c.session = session
	c.firstMessage = !found
	c.attachment = nil
	return nil
}

// ActiveName returns the active session's name, or "" when there is none.
func (c *Controller) ActiveName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Name
}

// Messages returns a copy of the active session's history.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	out := make([]Message, len(c.session.Messages))
	copy(out, c.session.Messages)
	return out
}

// Attach replaces the pending attachment for the next submission.
func (c *Controller) Attach(att *PendingAttachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = att
}

// ClearAttachment drops the pending attachment without using it.
func (c *Controller) ClearAttachment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = nil
}

// Submit sends one user turn through the blocking client and returns the
// assistant's reply turn. A submission while a reply is pending is rejected
// with ErrBusy and appends nothing.
func (c *Controller) Submit(ctx context.Context, text string) (Message, error) {
	return c.submit(ctx, text, func(payload []ChatMessage) (string, error) {
		return c.client.Chat(ctx, payload)
	})
}

// SubmitStream behaves like Submit but delivers the reply incrementally
// through fn before returning the full assistant turn. fn returning an error
// stops consumption; whatever arrived so far is kept and persisted.
func (c *Controller) SubmitStream(ctx context.Context, text string, fn func(fragment string) error) (Message, error) {
	return c.submit(ctx, text, func(payload []ChatMessage) (string, error) {
		var sb strings.Builder
		err := c.client.Stream(ctx, payload, func(fragment string) error {
			sb.WriteString(fragment)
			return fn(fragment)
		})
		return sb.String(), err
	})
}

func (c *Controller) submit(ctx context.Context, text string, send func([]ChatMessage) (string, error)) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Message{}, ErrBusy
	}
	c.busy = true
	if c.session == nil {
		c.newChatLocked()
	}
	session := c.session
	attachment := c.attachment

	if c.firstMessage {
		session.Name = c.uniqueName(DeriveTitle(text, c.titleLimit))
		c.firstMessage = false
	}

	history := make([]Message, len(session.Messages))
	copy(history, session.Messages)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	var contextText string
	if c.extractor != nil {
		contextText = c.extractor.Extract(ctx, attachment)
	}
	payload := c.composer.Compose(history, text, contextText)

	// The user's original, unaugmented text goes into history before the
	// reply arrives.
	c.mu.Lock()
	session.Append(RoleUser, text)
	c.mu.Unlock()

	reply, sendErr := send(payload)
	if sendErr != nil && !isDegradable(sendErr) {
		// Caller-initiated stop: keep what arrived, do not fabricate a
		// failure turn.
		LogDebug("Reply consumption stopped early: %v", sendErr)
	}
	if sendErr != nil && isDegradable(sendErr) {
		reply = failureMessage(sendErr)
	}

	c.mu.Lock()
	assistant := session.Append(RoleAssistant, reply)
	name := session.Name
	messages := make([]Message, len(session.Messages))
	copy(messages, session.Messages)
	if sendErr == nil && attachment != nil && c.attachment == attachment {
		c.attachment = nil
	}
	c.mu.Unlock()

	if err := c.store.Save(name, messages); err != nil {
		LogError("Failed to persist session %q: %v", name, err)
	}
	return assistant, nil
}

// Rename moves a stored session and repoints the active session when it was
// the one renamed. Renaming to the same name is a no-op success.
func (c *Controller) Rename(oldName, newName string) error {
	newName = SanitizeName(newName)
	if err := c.store.Rename(oldName, newName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.Name == SanitizeName(oldName) {
		c.session.Name = newName
	}
	return nil
}

// Delete removes a stored session. Deleting the active session falls back to
// a fresh chat so the active pointer never names a deleted session. A missing
// record is reported, not fatal.
func (c *Controller) Delete(name string) error {
	err := c.store.Delete(name)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			LogWarn("Delete: %v", err)
			err = nil
		}
	}

	c.mu.Lock()
	if c.session != nil && c.session.Name == SanitizeName(name) {
		c.newChatLocked()
	}
	c.mu.Unlock()
	return err
}

// Sessions lists stored sessions, most recently updated first.
func (c *Controller) Sessions() ([]SessionInfo, error) {
	return c.store.List()
}

// uniqueName dedupes a derived title against stored sessions by numeric
// suffix, preserving the display-name uniqueness invariant.
func (c *Controller) uniqueName(base string) string {
	name := base
	for i := 2; ; i++ {
		_, err := c.store.Load(name)
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return name
		}
		if err != nil {
			// Storage fault: keep the base name rather than block the
			// submission.
			return name
		}
		name = fmt.Sprintf("%s %d", base, i)
	}
}

// isDegradable reports whether a send failure becomes a visible assistant
// turn instead of propagating.
func isDegradable(err error) bool {
	var unreachable *UnreachableError
	var service *ServiceError
	return errors.As(err, &unreachable) || errors.As(err, &service) ||
		errors.Is(err, context.DeadlineExceeded)
}

func failureMessage(err error) string {
	var unreachable *UnreachableError
	if errors.As(err, &unreachable) {
		return fmt.Sprintf("[error] The model service is not reachable: %v", unreachable.Err)
	}
	var service *ServiceError
	if errors.As(err, &service) {
		return fmt.Sprintf("[error] The model service returned an error (status %d): %s", service.Status, service.Detail)
	}
	return fmt.Sprintf("[error] %v", err)
}
