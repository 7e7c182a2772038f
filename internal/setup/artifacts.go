package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maloquacious/notesdb/internal/config"
	"github.com/maloquacious/notesdb/internal/store"
)

// writeConnectionFile writes the human-readable connection summary and
// returns its path.
func writeConnectionFile(cfg config.Config, dbPath string) (string, error) {
	path := filepath.Join(cfg.WorkDir, cfg.ConnectionFile)

	var sb strings.Builder
	sb.WriteString("# SQLite connection methods:\n")
	fmt.Fprintf(&sb, "# Go: sql.Open(\"sqlite\", %q)\n", cfg.DBName)
	fmt.Fprintf(&sb, "# Connection string: %s\n", store.ConnectionString(dbPath))
	fmt.Fprintf(&sb, "# File path: %s\n", dbPath)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("could not save connection info: %w", err)
	}
	return path, nil
}

// writeEnvFile writes a shell-sourceable export of the database path for
// the external viewer and returns its path.
func writeEnvFile(cfg config.Config, dbPath string) (string, error) {
	dir := filepath.Join(cfg.WorkDir, cfg.EnvDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create %s: %w", dir, err)
	}

	line := fmt.Sprintf("export %s=%s\n", cfg.EnvVar, shellQuote(dbPath))

	path := filepath.Join(dir, cfg.EnvFile)
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		return "", fmt.Errorf("could not save environment variables: %w", err)
	}
	return path, nil
}

// shellQuote single-quotes s for POSIX shells. Nothing is special inside
// single quotes, so only ' itself needs the '\'' sequence.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
