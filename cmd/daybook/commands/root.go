// Package commands holds the cobra commands for the daybook CLI.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	sqliteRepo "github.com/sakif/daybook/internal/repository/sqlite"
)

var dbPath string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daybook",
		Short: "Local journaling with a cached quote of the day",
		Long: `Daybook keeps journal entries, local accounts, app settings, and a
cached quote of the day in a single SQLite database on this device.

Run "daybook serve" for the HTTP API, or use the other commands directly.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; flags and real env vars win.
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (default $DAYBOOK_DB or data/daybook.db)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewQuoteCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger builds the process-wide structured logger.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DAYBOOK_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// resolveDBPath applies the --db flag, the DAYBOOK_DB env var, and the
// default path, in that order, and ensures the parent directory exists.
func resolveDBPath() (string, error) {
	path := dbPath
	if path == "" {
		path = os.Getenv("DAYBOOK_DB")
	}
	if path == "" {
		path = filepath.Join("data", "daybook.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// openDB resolves the path and opens the store; callers defer Close.
func openDB() (*sqliteRepo.DB, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return sqliteRepo.New(path)
}
