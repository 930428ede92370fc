package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore persists each session as <dir>/<sanitized name>.json, matching
// the flat-file history layout of the original assistants.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed session store rooted at dir. The
// directory is created on first use.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Name: dir, Op: "list", Err: err}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, SanitizeName(name)+".json")
}

// List returns sessions ordered by file modification time, newest first.
func (s *FileStore) List() ([]SessionInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Name: s.dir, Op: "list", Err: err}
	}

	var infos []SessionInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			LogWarn("Skipping unreadable session file %s: %v", entry.Name(), err)
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		count := 0
		if msgs, err := s.Load(name); err == nil {
			count = len(msgs)
		}
		infos = append(infos, SessionInfo{
			Name:         name,
			MessageCount: count,
			UpdatedAt:    fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

// Load reads a session's message list.
func (s *FileStore) Load(name string) ([]Message, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, &StorageError{Name: name, Op: "load", Err: err}
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, &StorageError{Name: name, Op: "load", Err: fmt.Errorf("failed to parse session JSON: %w", err)}
	}
	return messages, nil
}

// Save writes the full message list. The write goes to a temp file in the
// same directory and is renamed into place, so readers never see a partial
// session.
func (s *FileStore) Save(name string, messages []Message) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return &StorageError{Name: name, Op: "save", Err: err}
	}

	dst := s.path(name)
	tmp, err := os.CreateTemp(s.dir, ".session-*.tmp")
	if err != nil {
		return &StorageError{Name: name, Op: "save", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Name: name, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Name: name, Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return &StorageError{Name: name, Op: "save", Err: err}
	}
	return nil
}

// Rename moves a session file to a new (sanitized) name.
func (s *FileStore) Rename(oldName, newName string) error {
	src := s.path(oldName)
	dst := s.path(newName)
	if src == dst {
		return nil
	}
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Name: oldName}
		}
		return &StorageError{Name: oldName, Op: "rename", Err: err}
	}
	if _, err := os.Stat(dst); err == nil {
		return &NameCollisionError{Name: SanitizeName(newName)}
	}
	if err := os.Rename(src, dst); err != nil {
		return &StorageError{Name: oldName, Op: "rename", Err: err}
	}
	return nil
}

// Delete removes a session file.
func (s *FileStore) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Name: name}
		}
		return &StorageError{Name: name, Op: "delete", Err: err}
	}
	return nil
}
