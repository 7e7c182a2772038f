package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/maloquacious/notesdb/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSeed = store.Seed{
	Metadata: []store.KeyValue{
		{Key: "project_name", Value: "database"},
		{Key: "version", Value: "0.1.0"},
		{Key: "author", Value: "John Doe"},
		{Key: "description", Value: ""},
	},
	Notes: []store.Note{
		{Title: "Welcome", Content: "first"},
		{Title: "Tips", Content: "second"},
	},
}

func openTestStore(t *testing.T, dbPath string) *SQLiteStore {
	t.Helper()
	s := New(dbPath)
	require.NoError(t, s.Open())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInitializeFreshStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), store.DefaultDBFile))

	res, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)
	assert.Equal(t, store.SeedResult{NotesBefore: 0, NotesInserted: 2}, res)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Stats{Tables: 3, AppInfo: 4, Notes: 2}, stats)

	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StateReady, state)

	var title, createdAt, updatedAt string
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT title, created_at, updated_at FROM notes ORDER BY id LIMIT 1`).Scan(&title, &createdAt, &updatedAt))
	assert.Equal(t, "Welcome", title)
	assert.NotEmpty(t, createdAt)
	assert.Equal(t, createdAt, updatedAt)
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), store.DefaultDBFile))

	_, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)
	first, err := s.Stats(ctx)
	require.NoError(t, err)
	schemaBefore := schemaRows(t, s)

	res, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NotesBefore)
	assert.Zero(t, res.NotesInserted)

	second, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, schemaBefore, schemaRows(t, s))
}

// schemaRows returns every sqlite_master entry as "name: sql".
func schemaRows(t *testing.T, s *SQLiteStore) []string {
	t.Helper()
	rows, err := s.db.Query(`SELECT name, COALESCE(sql, '') FROM sqlite_master ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name, sql string
		require.NoError(t, rows.Scan(&name, &sql))
		out = append(out, name+": "+sql)
	}
	require.NoError(t, rows.Err())
	require.NotEmpty(t, out)
	return out
}

func TestInitializeSkipsSeedWhenNotesExist(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), store.DefaultDBFile))

	_, err := s.Initialize(ctx, store.Seed{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := s.db.ExecContext(ctx, insertNote, "user note", "body")
		require.NoError(t, err)
	}

	res, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)
	assert.Equal(t, store.SeedResult{NotesBefore: 5, NotesInserted: 0}, res)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Notes)
}

func TestInitializeUpsertsMetadata(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), store.DefaultDBFile))

	_, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)

	var idBefore int64
	var createdBefore string
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM app_info WHERE key = 'version'`).Scan(&idBefore, &createdBefore))

	changed := store.Seed{Metadata: append([]store.KeyValue(nil), testSeed.Metadata...)}
	changed.Metadata[1].Value = "0.2.0"
	_, err = s.Initialize(ctx, changed)
	require.NoError(t, err)

	rows, err := s.AppInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.KeyValue{
		{Key: "author", Value: "John Doe"},
		{Key: "description", Value: ""},
		{Key: "project_name", Value: "database"},
		{Key: "version", Value: "0.2.0"},
	}, rows)

	var idAfter int64
	var createdAfter string
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM app_info WHERE key = 'version'`).Scan(&idAfter, &createdAfter))
	assert.Equal(t, idBefore, idAfter)
	assert.Equal(t, createdBefore, createdAfter)
}

func TestUsersUniqueness(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), store.DefaultDBFile))
	_, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)

	var users int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users))
	assert.Zero(t, users)

	_, err = s.db.ExecContext(ctx, `INSERT INTO users (username, email) VALUES ('ann', 'ann@example.com')`)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (username, email) VALUES ('ann', 'other@example.com')`)
	assert.Error(t, err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (username, email) VALUES ('bob', 'ann@example.com')`)
	assert.Error(t, err)
}

func TestCheckState(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), store.DefaultDBFile))

	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StateUninitialized, state)

	_, err = New("unused").CheckState(ctx)
	assert.Error(t, err)
}

func TestProbe(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	good := filepath.Join(dir, "good.db")
	s := New(good)
	require.NoError(t, s.Open())
	_, err := s.Initialize(ctx, testSeed)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.NoError(t, Probe(ctx, good))

	bad := filepath.Join(dir, "bad.db")
	garbage := make([]byte, 4096)
	for i := range garbage {
		garbage[i] = 'x'
	}
	require.NoError(t, os.WriteFile(bad, garbage, 0o644))
	assert.Error(t, Probe(ctx, bad))
}

func TestNotOpened(t *testing.T) {
	ctx := context.Background()
	s := New("unused")

	_, err := s.Initialize(ctx, testSeed)
	assert.Error(t, err)
	_, err = s.Stats(ctx)
	assert.Error(t, err)
	_, err = s.AppInfo(ctx)
	assert.Error(t, err)
	assert.NoError(t, s.Close())
}
