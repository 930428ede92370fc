package internal

// SessionStore is a durable mapping from session name to ordered message
// list. Implementations are single-writer-per-session; no cross-process
// locking is assumed.
type SessionStore interface {
	// List returns listing entries, most recently updated first.
	List() ([]SessionInfo, error)

	// Load returns the stored messages for a session. Missing sessions
	// report *NotFoundError.
	Load(name string) ([]Message, error)

	// Save overwrites the stored messages for a session. A reader never
	// observes a partial write.
	Save(name string, messages []Message) error

	// Rename moves a session to a new name. An existing target reports
	// *NameCollisionError; renaming a session to its own name is a no-op.
	Rename(oldName, newName string) error

	// Delete removes a session. Missing sessions report *NotFoundError.
	Delete(name string) error
}
