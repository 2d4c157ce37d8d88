package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

// SetupSchema initializes the necessary tables in the provided database. It
// should be called once on a new database before any other operation. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaGrammars = `
CREATE TABLE IF NOT EXISTS grammar_grammars (
    grammar_id INTEGER PRIMARY KEY,
    grammar_name TEXT NOT NULL UNIQUE,
    default_length INTEGER NOT NULL DEFAULT 30
);
`
		schemaWords = `
CREATE TABLE IF NOT EXISTS grammar_words (
    grammar_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    word_text TEXT NOT NULL,
    word_type TEXT NOT NULL,
    PRIMARY KEY (grammar_id, word_text)
);
`
		schemaRules = `
CREATE TABLE IF NOT EXISTS grammar_rules (
    grammar_id INTEGER NOT NULL,
    word_type TEXT NOT NULL,
    PRIMARY KEY (grammar_id, word_type)
);
`
		schemaFollowers = `
CREATE TABLE IF NOT EXISTS grammar_followers (
    grammar_id INTEGER NOT NULL,
    word_type TEXT NOT NULL,
    position INTEGER NOT NULL,
    follower_type TEXT NOT NULL,
    PRIMARY KEY (grammar_id, word_type, position)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, schema := range []string{schemaGrammars, schemaWords, schemaRules, schemaFollowers} {
		if _, err = tx.Exec(schema); err != nil {
			return fmt.Errorf("could not create schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store holds the database connection and the prepared statements used to
// read and write grammars.
type Store struct {
	db                *sql.DB
	stmtGetGrammar    *sql.Stmt
	stmtGetGrammars   *sql.Stmt
	stmtAddGrammar    *sql.Stmt
	stmtAddWord       *sql.Stmt
	stmtAddRule       *sql.Stmt
	stmtClearRule     *sql.Stmt
	stmtAddFollower   *sql.Stmt
	stmtGetWords      *sql.Stmt
	stmtGetRules      *sql.Stmt
	stmtGetFollowers  *sql.Stmt
	stmtCountWords    *sql.Stmt
	stmtCountTypes    *sql.Stmt
	stmtCountRules    *sql.Stmt
	stmtCountFollower *sql.Stmt
	logger            *slog.Logger
}

// NewStore creates a Store and pre-compiles all of its SQL statements,
// returning an error if any preparation fails. SetupSchema must have been
// called on db.
func NewStore(db *sql.DB) (*Store, error) {
	stmtGetGrammar, err := db.Prepare(`SELECT grammar_id, default_length FROM grammar_grammars WHERE grammar_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetGrammars, err := db.Prepare(`SELECT grammar_id, grammar_name, default_length FROM grammar_grammars;`)
	if err != nil {
		return nil, err
	}

	stmtAddGrammar, err := db.Prepare(`INSERT INTO grammar_grammars (grammar_name, default_length) VALUES (?, ?);`)
	if err != nil {
		return nil, err
	}

	// New words go to the end of the registration order; a known text keeps its position.
	stmtAddWord, err := db.Prepare(`
INSERT INTO grammar_words (grammar_id, position, word_text, word_type)
VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM grammar_words WHERE grammar_id = ?), ?, ?)
ON CONFLICT(grammar_id, word_text) DO UPDATE SET word_type = excluded.word_type;`)
	if err != nil {
		return nil, err
	}

	stmtAddRule, err := db.Prepare(`INSERT OR IGNORE INTO grammar_rules (grammar_id, word_type) VALUES (?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtClearRule, err := db.Prepare(`DELETE FROM grammar_followers WHERE grammar_id = ? AND word_type = ?;`)
	if err != nil {
		return nil, err
	}

	stmtAddFollower, err := db.Prepare(`INSERT INTO grammar_followers (grammar_id, word_type, position, follower_type) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtGetWords, err := db.Prepare(`SELECT word_text, word_type FROM grammar_words WHERE grammar_id = ? ORDER BY position;`)
	if err != nil {
		return nil, err
	}

	stmtGetRules, err := db.Prepare(`SELECT word_type FROM grammar_rules WHERE grammar_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetFollowers, err := db.Prepare(`SELECT word_type, follower_type FROM grammar_followers WHERE grammar_id = ? ORDER BY word_type, position;`)
	if err != nil {
		return nil, err
	}

	stmtCountWords, err := db.Prepare(`SELECT COUNT(*) FROM grammar_words WHERE grammar_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtCountTypes, err := db.Prepare(`SELECT COUNT(DISTINCT word_type) FROM grammar_words WHERE grammar_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtCountRules, err := db.Prepare(`SELECT COUNT(*) FROM grammar_rules WHERE grammar_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtCountFollower, err := db.Prepare(`SELECT COUNT(*) FROM grammar_followers WHERE grammar_id = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                db,
		stmtGetGrammar:    stmtGetGrammar,
		stmtGetGrammars:   stmtGetGrammars,
		stmtAddGrammar:    stmtAddGrammar,
		stmtAddWord:       stmtAddWord,
		stmtAddRule:       stmtAddRule,
		stmtClearRule:     stmtClearRule,
		stmtAddFollower:   stmtAddFollower,
		stmtGetWords:      stmtGetWords,
		stmtGetRules:      stmtGetRules,
		stmtGetFollowers:  stmtGetFollowers,
		stmtCountWords:    stmtCountWords,
		stmtCountTypes:    stmtCountTypes,
		stmtCountRules:    stmtCountRules,
		stmtCountFollower: stmtCountFollower,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. The database
// itself is owned by the caller and stays open.
func (s *Store) Close() {
	_ = s.stmtGetGrammar.Close()
	_ = s.stmtGetGrammars.Close()
	_ = s.stmtAddGrammar.Close()
	_ = s.stmtAddWord.Close()
	_ = s.stmtAddRule.Close()
	_ = s.stmtClearRule.Close()
	_ = s.stmtAddFollower.Close()
	_ = s.stmtGetWords.Close()
	_ = s.stmtGetRules.Close()
	_ = s.stmtGetFollowers.Close()
	_ = s.stmtCountWords.Close()
	_ = s.stmtCountTypes.Close()
	_ = s.stmtCountRules.Close()
	_ = s.stmtCountFollower.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}
