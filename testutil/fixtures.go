package testutil

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// CreateSessionDB creates a SQLite session database fixture with sample rows
// and returns its path.
func CreateSessionDB(t *testing.T, dir string, names ...string) string {
	t.Helper()
	dbPath := filepath.Join(dir, "sessions.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS sessions (
		name       TEXT PRIMARY KEY,
		messages   TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create sessions table: %v", err)
	}

	for i, name := range names {
		messages := []map[string]string{
			{"role": "user", "content": "Hello from " + name},
			{"role": "assistant", "content": "Hi there"},
		}
		payload, _ := json.Marshal(messages)
		ts := time.Now().Add(time.Duration(i) * time.Minute).UnixMilli()
		if _, err := db.Exec("INSERT INTO sessions (name, messages, created_at, updated_at) VALUES (?, ?, ?, ?)",
			name, string(payload), ts, ts); err != nil {
			t.Fatalf("Failed to insert session %q: %v", name, err)
		}
	}

	return dbPath
}

// SampleMessages returns a raw two-turn conversation for file fixtures
func SampleMessages(userText, assistantText string) []map[string]interface{} {
	return []map[string]interface{}{
		{"role": "user", "content": userText},
		{"role": "assistant", "content": assistantText},
	}
}
