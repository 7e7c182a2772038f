package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDBFile = "myapp.db"
)

// CheckExists verifies if the datastore file exists at dbPath.
// Returns true if the store exists, false otherwise.
func CheckExists(dbPath string) (bool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetDBPath returns the absolute path to the database file named dbName in dir.
func GetDBPath(dir, dbName string) (string, error) {
	if dbName == "" {
		dbName = DefaultDBFile
	}
	abs, err := filepath.Abs(filepath.Join(dir, dbName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return abs, nil
}

// ConnectionString returns the URI-style connection string for an absolute path.
func ConnectionString(absPath string) string {
	return "sqlite:///" + filepath.ToSlash(absPath)
}
