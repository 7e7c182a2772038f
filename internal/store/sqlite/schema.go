package sqlite

// schemaStatements create the notes application tables.
// Every statement is IF NOT EXISTS so re-running against an initialized
// store changes nothing.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS app_info (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    key TEXT UNIQUE NOT NULL,
    value TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    email TEXT UNIQUE NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
}

// tableNames are the tables CheckState expects to find.
var tableNames = []string{"app_info", "users", "notes"}

// upsertAppInfo keeps id and created_at of an existing key and replaces only value.
const upsertAppInfo = `INSERT INTO app_info (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`

const insertNote = `INSERT INTO notes (title, content, created_at, updated_at)
VALUES (?, ?, datetime('now'), datetime('now'))`

const countUserTables = `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`
