package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists sessions as rows in a single-table SQLite database.
// The message list is stored as a JSON payload per row; saves, renames and
// deletes each run in their own transaction.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	name       TEXT PRIMARY KEY,
	messages   TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// OpenSQLiteStore opens (and if needed initializes) a session database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-open database. Used by tests.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns sessions ordered by update recency, newest first.
func (s *SQLiteStore) List() ([]SessionInfo, error) {
	rows, err := s.db.Query("SELECT name, messages, updated_at FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var name, payload string
		var updated int64
		if err := rows.Scan(&name, &payload, &updated); err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		var messages []Message
		if err := json.Unmarshal([]byte(payload), &messages); err != nil {
			LogWarn("Skipping session %q with unreadable payload: %v", name, err)
			continue
		}
		infos = append(infos, SessionInfo{
			Name:         name,
			MessageCount: len(messages),
			UpdatedAt:    time.UnixMilli(updated),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return infos, nil
}

// Load reads a session's message list.
func (s *SQLiteStore) Load(name string) ([]Message, error) {
	name = SanitizeName(name)
	var payload string
	err := s.db.QueryRow("SELECT messages FROM sessions WHERE name = ?", name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, &StorageError{Name: name, Op: "load", Err: err}
	}

	var messages []Message
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil, &StorageError{Name: name, Op: "load", Err: fmt.Errorf("failed to parse session JSON: %w", err)}
	}
	return messages, nil
}

// Save upserts the full message list for a session.
func (s *SQLiteStore) Save(name string, messages []Message) error {
	name = SanitizeName(name)
	payload, err := json.Marshal(messages)
	if err != nil {
		return &StorageError{Name: name, Op: "save", Err: err}
	}

	now := time.Now().UnixMilli()
	_, err = s.db.Exec(`
		INSERT INTO sessions (name, messages, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET messages = excluded.messages, updated_at = excluded.updated_at`,
		name, string(payload), now, now)
	if err != nil {
		return &StorageError{Name: name, Op: "save", Err: err}
	}
	return nil
}

// Rename moves a session row to a new name inside a transaction.
func (s *SQLiteStore) Rename(oldName, newName string) error {
	oldName = SanitizeName(oldName)
	newName = SanitizeName(newName)
	if oldName == newName {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Name: oldName, Op: "rename", Err: err}
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM sessions WHERE name = ?", newName).Scan(&exists); err != nil {
		return &StorageError{Name: newName, Op: "rename", Err: err}
	}
	if exists > 0 {
		return &NameCollisionError{Name: newName}
	}

	res, err := tx.Exec("UPDATE sessions SET name = ? WHERE name = ?", newName, oldName)
	if err != nil {
		return &StorageError{Name: oldName, Op: "rename", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Name: oldName}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Name: oldName, Op: "rename", Err: err}
	}
	return nil
}

// Delete removes a session row.
func (s *SQLiteStore) Delete(name string) error {
	name = SanitizeName(name)
	res, err := s.db.Exec("DELETE FROM sessions WHERE name = ?", name)
	if err != nil {
		return &StorageError{Name: name, Op: "delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Name: name}
	}
	return nil
}
