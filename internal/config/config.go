// Package config holds the settings for one initialization run.
//
// Settings come from Default, then an optional .env file in the working
// directory, then NOTESDB_* environment variables. The metadata pairs and
// seed notes are fixed; callers that need different rows edit the struct.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/maloquacious/notesdb/internal/logger"
	"github.com/maloquacious/notesdb/internal/store"
	"github.com/spf13/viper"
)

const envPrefix = "NOTESDB"

// Config is the explicit configuration passed to the initializer.
type Config struct {
	DBName         string
	WorkDir        string
	ConnectionFile string
	EnvDir         string
	EnvFile        string
	EnvVar         string
	CLITool        string
	LogLevel       string

	Metadata  []store.KeyValue
	SeedNotes []store.Note
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBName:         store.DefaultDBFile,
		WorkDir:        ".",
		ConnectionFile: "db_connection.txt",
		EnvDir:         "db_visualizer",
		EnvFile:        "sqlite.env",
		EnvVar:         "SQLITE_DB",
		CLITool:        "sqlite3",
		LogLevel:       "info",
		Metadata: []store.KeyValue{
			{Key: "project_name", Value: "database"},
			{Key: "version", Value: "0.1.0"},
			{Key: "author", Value: "John Doe"},
			{Key: "description", Value: ""},
		},
		SeedNotes: []store.Note{
			{Title: "Welcome", Content: "This is your first note. You can edit or delete it."},
			{Title: "Tips", Content: "Use the + button to add a note. Notes are saved automatically when you click Save."},
		},
	}
}

// Load returns Default with .env and NOTESDB_* environment overrides applied.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("db_name", cfg.DBName)
	v.SetDefault("work_dir", cfg.WorkDir)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("cli_tool", cfg.CLITool)

	cfg.DBName = v.GetString("db_name")
	cfg.WorkDir = v.GetString("work_dir")
	cfg.LogLevel = v.GetString("log_level")
	cfg.CLITool = v.GetString("cli_tool")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that would make initialization meaningless.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("config: database name is empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	seen := make(map[string]bool, len(c.Metadata))
	for _, kv := range c.Metadata {
		if kv.Key == "" {
			return fmt.Errorf("config: metadata key is empty")
		}
		if seen[kv.Key] {
			return fmt.Errorf("config: duplicate metadata key %q", kv.Key)
		}
		seen[kv.Key] = true
	}
	for i, n := range c.SeedNotes {
		if n.Title == "" || n.Content == "" {
			return fmt.Errorf("config: seed note %d needs a title and content", i)
		}
	}
	return nil
}

// DBPath returns the absolute path of the database file.
func (c Config) DBPath() (string, error) {
	return store.GetDBPath(c.WorkDir, c.DBName)
}

// Seed returns the rows the store writes during initialization.
func (c Config) Seed() store.Seed {
	return store.Seed{Metadata: c.Metadata, Notes: c.SeedNotes}
}
