package main

import (
	"fmt"
	"os"

	"github.com/maloquacious/notesdb/internal/config"
	"github.com/maloquacious/notesdb/internal/logger"
	"github.com/maloquacious/notesdb/internal/setup"
	"github.com/maloquacious/notesdb/internal/store"
	"github.com/maloquacious/notesdb/internal/store/sqlite"
	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var (
	version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "notesdb",
		Short:        "Create and seed the notes application database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runDBCreate,
	}

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create and initialize the datastore",
		Args:  cobra.NoArgs,
		RunE:  runDBCreate,
	}
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Report datastore state and statistics without writing",
		Args:  cobra.NoArgs,
		RunE:  runDBVerify,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}

	dbCmd.AddCommand(dbCreateCmd, dbVerifyCmd)
	rootCmd.AddCommand(dbCmd, versionCmd)
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger.New(cmd.OutOrStdout(), level), nil
}

func runDBCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Info("starting SQLite setup")
	res, err := setup.New(cfg, log).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("db create: %w", err)
	}

	setup.PrintReport(cmd.OutOrStdout(), cfg, res)
	return nil
}

func runDBVerify(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}
	exists, err := store.CheckExists(dbPath)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintf(out, "%s: %s\n", dbPath, store.StateMissing)
		return fmt.Errorf("db verify: %s", store.StateMissing)
	}
	if err := sqlite.Probe(ctx, dbPath); err != nil {
		log.Warn("probe failed: %v", err)
		fmt.Fprintf(out, "%s: %s\n", dbPath, store.StateUnreadable)
		return fmt.Errorf("db verify: %w", err)
	}

	s := sqlite.New(dbPath)
	if err := s.Open(); err != nil {
		return fmt.Errorf("db verify: %w", err)
	}
	defer s.Close()

	state, err := s.CheckState(ctx)
	if err != nil {
		return fmt.Errorf("db verify: %w", err)
	}
	fmt.Fprintf(out, "%s: %s\n", dbPath, state)
	if state != store.StateReady {
		return fmt.Errorf("db verify: %s", state)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("db verify: %w", err)
	}
	fmt.Fprintf(out, "  Tables: %d\n  App info records: %d\n  Notes: %d\n", stats.Tables, stats.AppInfo, stats.Notes)

	rows, err := s.AppInfo(ctx)
	if err != nil {
		return fmt.Errorf("db verify: %w", err)
	}
	fmt.Fprintln(out, "App info:")
	for _, kv := range rows {
		fmt.Fprintf(out, "  %s = %q\n", kv.Key, kv.Value)
	}
	return nil
}
