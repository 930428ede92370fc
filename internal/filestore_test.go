package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sidetalk/sidetalk/testutil"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(testutil.CreateTempDir(t))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

func messagesEqual(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Role != b[i].Role || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	saved := CreateTestMessages()

	if err := store.Save("My Chat", saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load("My Chat")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !messagesEqual(saved, loaded) {
		t.Errorf("Load() = %+v, want %+v", loaded, saved)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store := newTestFileStore(t)

	if err := store.Save("chat", CreateTestMessages()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second := []Message{{Role: RoleUser, Content: "only turn"}}
	if err := store.Save("chat", second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load("chat")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !messagesEqual(second, loaded) {
		t.Errorf("Load() after overwrite = %+v, want %+v", loaded, second)
	}
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Save("chat", CreateTestMessages()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "chat.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("history dir = %v, want exactly [chat.json]", names)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := newTestFileStore(t)

	_, err := store.Load("nope")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Load() on missing session error = %v, want *NotFoundError", err)
	}
}

func TestFileStore_ListOrdersByRecency(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for _, name := range []string{"oldest", "middle", "newest"} {
		if err := store.Save(name, CreateTestMessages()); err != nil {
			t.Fatalf("Save(%q) error = %v", name, err)
		}
	}
	// Spread modification times so the ordering is deterministic.
	now := time.Now()
	for i, name := range []string{"oldest", "middle", "newest"} {
		ts := now.Add(time.Duration(i-3) * time.Hour)
		if err := os.Chtimes(filepath.Join(dir, name+".json"), ts, ts); err != nil {
			t.Fatalf("Chtimes() error = %v", err)
		}
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("List() returned %d sessions, want 3", len(infos))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, info := range infos {
		if info.Name != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, info.Name, want[i])
		}
		if info.MessageCount != 2 {
			t.Errorf("List()[%d].MessageCount = %d, want 2", i, info.MessageCount)
		}
	}
}

func TestFileStore_ListReflectsMutations(t *testing.T) {
	store := newTestFileStore(t)

	if err := store.Save("a", CreateTestMessages()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Rename("a", "b"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "b" {
		t.Errorf("List() after rename = %+v, want single session b", infos)
	}

	if err := store.Delete("b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	infos, err = store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("List() after delete = %+v, want empty", infos)
	}
}

func TestFileStore_RenameCollision(t *testing.T) {
	store := newTestFileStore(t)

	first := []Message{{Role: RoleUser, Content: "I am A"}}
	second := []Message{{Role: RoleUser, Content: "I am B"}}
	if err := store.Save("A", first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("B", second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	err := store.Rename("A", "B")
	var collision *NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("Rename() onto existing session error = %v, want *NameCollisionError", err)
	}

	// Both sessions must be untouched.
	gotA, err := store.Load("A")
	if err != nil {
		t.Fatalf("Load(A) error = %v", err)
	}
	gotB, err := store.Load("B")
	if err != nil {
		t.Fatalf("Load(B) error = %v", err)
	}
	if !messagesEqual(first, gotA) || !messagesEqual(second, gotB) {
		t.Error("Rename() collision must leave both sessions' content untouched")
	}
}

func TestFileStore_RenameToSelf(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save("Untitled", CreateTestMessages()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Rename("Untitled", "Untitled"); err != nil {
		t.Errorf("Rename() to own name = %v, want no-op success", err)
	}
	if _, err := store.Load("Untitled"); err != nil {
		t.Errorf("Load() after self-rename error = %v", err)
	}
}

func TestFileStore_RenameMissing(t *testing.T) {
	store := newTestFileStore(t)

	err := store.Rename("ghost", "real")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Rename() of missing session error = %v, want *NotFoundError", err)
	}
}

func TestFileStore_DeleteMissing(t *testing.T) {
	store := newTestFileStore(t)

	err := store.Delete("ghost")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Delete() of missing session error = %v, want *NotFoundError", err)
	}
}

func TestFileStore_SanitizesNamesOnDisk(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := store.Save("what/is:this?", CreateTestMessages()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "whatisthis.json")); err != nil {
		t.Errorf("expected sanitized file name on disk: %v", err)
	}
	if _, err := store.Load("what/is:this?"); err != nil {
		t.Errorf("Load() with unsanitized name error = %v", err)
	}
}
