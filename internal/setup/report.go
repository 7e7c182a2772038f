package setup

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/maloquacious/notesdb/internal/config"
)

// PrintReport writes the end-of-run summary.
func PrintReport(w io.Writer, cfg config.Config, res Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SQLite setup complete!")
	fmt.Fprintf(w, "Database: %s\n", cfg.DBName)
	fmt.Fprintf(w, "Location: %s\n", res.DBPath)
	fmt.Fprintln(w)

	if res.EnvFile != "" {
		fmt.Fprintf(w, "To use with the database viewer, run: source %s\n", filepath.Join(cfg.EnvDir, cfg.EnvFile))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "To connect to the database, use one of the following methods:")
	fmt.Fprintf(w, "1. Go: sql.Open(\"sqlite\", %q)\n", cfg.DBName)
	fmt.Fprintf(w, "2. Connection string: %s\n", res.ConnectionString)
	fmt.Fprintf(w, "3. Direct file access: %s\n", res.DBPath)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Database statistics:")
	fmt.Fprintf(w, "  Tables: %d\n", res.Stats.Tables)
	fmt.Fprintf(w, "  App info records: %d\n", res.Stats.AppInfo)
	fmt.Fprintf(w, "  Notes: %d\n", res.Stats.Notes)

	if res.CLIPath != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "SQLite CLI is available. You can also use:")
		fmt.Fprintf(w, "  %s %s\n", cfg.CLITool, res.DBPath)
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Completed with %d warning(s):\n", len(res.Warnings))
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Initialization completed successfully.")
}
