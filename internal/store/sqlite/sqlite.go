package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/maloquacious/notesdb/internal/store"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New creates a new SQLiteStore.
func New(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Apply safe defaults
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Probe checks that the file at dbPath is a readable SQLite database.
// It uses its own handle and never writes.
func Probe(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// sqlite_master forces a read of the file header; SELECT 1 would not.
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master`).Scan(&n); err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	return nil
}

// Initialize creates the schema, upserts the metadata rows and seeds notes
// if the notes table is empty.
func (s *SQLiteStore) Initialize(ctx context.Context, seed store.Seed) (store.SeedResult, error) {
	var result store.SeedResult
	if s.db == nil {
		return result, fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return result, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	for _, kv := range seed.Metadata {
		if _, err := tx.ExecContext(ctx, upsertAppInfo, kv.Key, kv.Value); err != nil {
			return result, fmt.Errorf("failed to upsert app_info %q: %w", kv.Key, err)
		}
	}

	// Count-based guard: any existing note, seeded or not, suppresses seeding.
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&result.NotesBefore); err != nil {
		return result, fmt.Errorf("failed to count notes: %w", err)
	}
	if result.NotesBefore == 0 {
		for _, n := range seed.Notes {
			if _, err := tx.ExecContext(ctx, insertNote, n.Title, n.Content); err != nil {
				return store.SeedResult{NotesBefore: result.NotesBefore}, fmt.Errorf("failed to seed note %q: %w", n.Title, err)
			}
			result.NotesInserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return store.SeedResult{NotesBefore: result.NotesBefore}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// Stats returns the number of user tables and rows in app_info and notes.
func (s *SQLiteStore) Stats(ctx context.Context) (store.Stats, error) {
	var stats store.Stats
	if s.db == nil {
		return stats, fmt.Errorf("database not opened")
	}

	if err := s.db.QueryRowContext(ctx, countUserTables).Scan(&stats.Tables); err != nil {
		return stats, fmt.Errorf("failed to count tables: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_info`).Scan(&stats.AppInfo); err != nil {
		return stats, fmt.Errorf("failed to count app_info: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&stats.Notes); err != nil {
		return stats, fmt.Errorf("failed to count notes: %w", err)
	}

	return stats, nil
}

// CheckState returns the current state of the datastore.
func (s *SQLiteStore) CheckState(ctx context.Context) (store.StoreState, error) {
	if s.db == nil {
		return store.StateMissing, fmt.Errorf("database not opened")
	}

	for _, name := range tableNames {
		var count int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
		if err != nil {
			return store.StateUnreadable, fmt.Errorf("failed to check %s table: %w", name, err)
		}
		if count == 0 {
			return store.StateUninitialized, nil
		}
	}

	return store.StateReady, nil
}

// AppInfo returns the app_info rows ordered by key.
func (s *SQLiteStore) AppInfo(ctx context.Context) ([]store.KeyValue, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, COALESCE(value, '') FROM app_info ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query app_info: %w", err)
	}
	defer rows.Close()

	var out []store.KeyValue
	for rows.Next() {
		var kv store.KeyValue
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, fmt.Errorf("failed to scan app_info: %w", err)
		}
		out = append(out, kv)
	}
	return out, rows.Err()
}
