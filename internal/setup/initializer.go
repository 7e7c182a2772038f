// Package setup runs the one-shot initialization of the notes database.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/maloquacious/notesdb/internal/config"
	"github.com/maloquacious/notesdb/internal/logger"
	"github.com/maloquacious/notesdb/internal/store"
	"github.com/maloquacious/notesdb/internal/store/sqlite"
)

// Step names a best-effort step whose failure is reported as a warning.
type Step string

const (
	StepProbe          Step = "probe"
	StepConnectionFile Step = "connection-file"
	StepEnvFile        Step = "env-file"
	StepCLIDetect      Step = "cli-detect"
)

// Warning records a non-fatal failure.
type Warning struct {
	Step Step
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Step, w.Err)
}

// Result is the outcome of one run.
type Result struct {
	DBPath           string
	ConnectionString string
	Existed          bool
	Stats            store.Stats
	NotesSeeded      int
	ConnectionFile   string
	EnvFile          string
	CLIPath          string
	Warnings         []Warning
}

// HasWarning reports whether step produced a warning.
func (r Result) HasWarning(step Step) bool {
	for _, w := range r.Warnings {
		if w.Step == step {
			return true
		}
	}
	return false
}

// Initializer creates, populates and describes the notes database.
type Initializer struct {
	Config   config.Config
	Log      logger.Logger
	NewStore func(dbPath string) store.Store
	Probe    func(ctx context.Context, dbPath string) error
	LookPath func(file string) (string, error)
}

// New returns an Initializer backed by SQLite.
func New(cfg config.Config, log logger.Logger) *Initializer {
	if log == nil {
		log = logger.Default
	}
	return &Initializer{
		Config:   cfg,
		Log:      log,
		NewStore: func(dbPath string) store.Store { return sqlite.New(dbPath) },
		Probe:    sqlite.Probe,
		LookPath: exec.LookPath,
	}
}

// Run performs the initialization. Only failures to open, initialize or
// read the store are returned as errors; everything else becomes a Warning.
// The returned Result is populated as far as the run got.
func (in *Initializer) Run(ctx context.Context) (Result, error) {
	var res Result
	if err := in.Config.Validate(); err != nil {
		return res, err
	}

	dbPath, err := in.Config.DBPath()
	if err != nil {
		return res, err
	}
	res.DBPath = dbPath
	res.ConnectionString = store.ConnectionString(dbPath)

	res.Existed, err = store.CheckExists(dbPath)
	if err != nil {
		return res, err
	}
	if res.Existed {
		in.Log.Info("database already exists at %s", dbPath)
		if err := in.Probe(ctx, dbPath); err != nil {
			in.warn(&res, StepProbe, fmt.Errorf("database exists but may be corrupted: %w", err))
		} else {
			in.Log.Info("database is accessible")
		}
	} else {
		in.Log.Info("creating new database at %s", dbPath)
	}

	if err := in.populate(ctx, &res); err != nil {
		in.Log.Error("initialization failed: %v", err)
		return res, err
	}

	res.ConnectionFile, err = writeConnectionFile(in.Config, dbPath)
	if err != nil {
		in.warn(&res, StepConnectionFile, err)
	} else {
		in.Log.Info("connection information saved to %s", res.ConnectionFile)
	}

	res.EnvFile, err = writeEnvFile(in.Config, dbPath)
	if err != nil {
		in.warn(&res, StepEnvFile, err)
	} else {
		in.Log.Info("environment variables saved to %s", res.EnvFile)
	}

	res.CLIPath, err = detectCLI(in.LookPath, in.Config.CLITool)
	if err != nil {
		in.warn(&res, StepCLIDetect, err)
	}

	return res, nil
}

// populate holds the store open only for the write phase and the stats read.
func (in *Initializer) populate(ctx context.Context, res *Result) (err error) {
	s := in.NewStore(res.DBPath)
	if err := s.Open(); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()

	seeded, err := s.Initialize(ctx, in.Config.Seed())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	res.NotesSeeded = seeded.NotesInserted
	if seeded.NotesInserted > 0 {
		in.Log.Info("seeded %d notes", seeded.NotesInserted)
	} else {
		in.Log.Debug("notes table has %d rows, seeding skipped", seeded.NotesBefore)
	}

	res.Stats, err = s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read statistics: %w", err)
	}
	return nil
}

func (in *Initializer) warn(res *Result, step Step, err error) {
	res.Warnings = append(res.Warnings, Warning{Step: step, Err: err})
	in.Log.Warn("%s: %v", step, err)
}

// detectCLI returns the path of tool, or "" if it is not installed.
func detectCLI(lookPath func(string) (string, error), tool string) (string, error) {
	if tool == "" || lookPath == nil {
		return "", nil
	}
	path, err := lookPath(tool)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("detect %s: %w", tool, err)
	}
	return path, nil
}
