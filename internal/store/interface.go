package store

import "context"

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing       StoreState = iota // File doesn't exist
	StateUnreadable                      // File exists but is not a readable store
	StateUninitialized                   // Readable but one or more tables are absent
	StateReady                           // All tables present
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUnreadable:
		return "unreadable"
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// KeyValue is one app_info row.
type KeyValue struct {
	Key   string
	Value string
}

// Note is the content of a seed note.
type Note struct {
	Title   string
	Content string
}

// Seed lists the fixed rows written by Initialize.
type Seed struct {
	Metadata []KeyValue
	Notes    []Note
}

// SeedResult reports what Initialize did to the notes table.
type SeedResult struct {
	NotesBefore   int
	NotesInserted int
}

// Stats are the counts reported after initialization.
type Stats struct {
	Tables  int
	AppInfo int
	Notes   int
}

// Store defines the notes datastore contract.
type Store interface {
	// Open opens the datastore connection, creating the file if needed
	Open() error

	// Close closes the datastore connection
	Close() error

	// Initialize applies the schema, upserts metadata and seeds notes when
	// the notes table is empty, all in one committed transaction
	Initialize(ctx context.Context, seed Seed) (SeedResult, error)

	// Stats returns table and row counts
	Stats(ctx context.Context) (Stats, error)

	// CheckState returns the current state of the datastore
	CheckState(ctx context.Context) (StoreState, error)
}
