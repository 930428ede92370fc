package internal

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used for tests and for
// running without a history directory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]Message
	updated  map[string]time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Message),
		updated:  make(map[string]time.Time),
	}
}

// List returns sessions ordered by update recency, newest first.
func (s *MemoryStore) List() ([]SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]SessionInfo, 0, len(s.sessions))
	for name, msgs := range s.sessions {
		infos = append(infos, SessionInfo{
			Name:         name,
			MessageCount: len(msgs),
			UpdatedAt:    s.updated[name],
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

// Load returns a copy of the stored messages.
func (s *MemoryStore) Load(name string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = SanitizeName(name)
	msgs, ok := s.sessions[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Save overwrites the stored messages with a copy of the given list.
func (s *MemoryStore) Save(name string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = SanitizeName(name)
	stored := make([]Message, len(messages))
	copy(stored, messages)
	s.sessions[name] = stored
	s.updated[name] = time.Now()
	return nil
}

// Rename moves a session to a new name.
func (s *MemoryStore) Rename(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldName = SanitizeName(oldName)
	newName = SanitizeName(newName)
	if oldName == newName {
		return nil
	}
	msgs, ok := s.sessions[oldName]
	if !ok {
		return &NotFoundError{Name: oldName}
	}
	if _, taken := s.sessions[newName]; taken {
		return &NameCollisionError{Name: newName}
	}
	s.sessions[newName] = msgs
	s.updated[newName] = s.updated[oldName]
	delete(s.sessions, oldName)
	delete(s.updated, oldName)
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = SanitizeName(name)
	if _, ok := s.sessions[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(s.sessions, name)
	delete(s.updated, name)
	return nil
}
