package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/wordwalk/internal/logging"
	"github.com/CTAG07/wordwalk/pkg/store"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Commands write to the command's
// output streams so they can be exercised in tests.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wordwalk",
		Short:         "wordwalk generates text by walking a word-type grammar",
		Long:          `wordwalk produces pseudo-random paragraphs by walking a finite-state grammar of word types, where each type lists the types allowed to follow it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "config.json", "Path to the JSON configuration file")
	root.PersistentFlags().String("db", "", "Path to the SQLite database (overrides the config file)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides the config file)")

	root.AddCommand(
		newDemoCmd(),
		newGenerateCmd(),
		newValidateCmd(),
		newGrammarCmd(),
		newRenderCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// appConfig reads the configuration file if it exists and applies the
// persistent flag overrides. Unlike LoadConfig it never writes a file.
func appConfig(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")

	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	applyOverrides(cmd, config)
	return config, nil
}

func applyOverrides(cmd *cobra.Command, config *Config) {
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		config.Server.DatabasePath = db
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		config.Server.LogLevel = level
	}
}

// commandLogger logs to stderr at the configured level.
func commandLogger(cmd *cobra.Command, config *Config) *slog.Logger {
	return logging.New(config.Server.LogLevel, cmd.ErrOrStderr())
}

// openStore opens the configured database, sets up the schema and prepares
// the store. The returned closer releases both.
func openStore(config *Config, logger *slog.Logger) (*store.Store, io.Closer, error) {
	path := config.Server.DatabasePath
	if dir := filepath.Dir(strings.SplitN(path, "?", 2)[0]); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := initDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = store.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to set up schema: %w", err)
	}
	st, err := store.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare store: %w", err)
	}
	st.SetLogger(logger)
	return st, storeCloser{st: st, db: db}, nil
}

type storeCloser struct {
	st *store.Store
	db *sql.DB
}

func (c storeCloser) Close() error {
	c.st.Close()
	return c.db.Close()
}
