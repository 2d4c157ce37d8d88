package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new SQLite database file and a Store for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestDB(t *testing.T) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

// testGrammar is a small grammar with a noun/verb/adjective cycle.
func testGrammar() grammar.Grammar {
	return grammar.Grammar{
		Followers: grammar.FollowerTable{
			"noun":      {"verb", "adjective"},
			"verb":      {"noun"},
			"adjective": {"noun"},
		},
		Vocabulary: []grammar.Word{
			{Text: "fish", Type: "noun"},
			{Text: "swim", Type: "verb"},
			{Text: "red", Type: "adjective"},
			{Text: "blue", Type: "adjective"},
			{Text: "eat", Type: "verb"},
		},
	}
}

// setupTestDBWithGrammar is a convenience helper that also stores testGrammar.
func setupTestDBWithGrammar(t *testing.T) (context.Context, *Store, GrammarInfo) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	info, err := s.SaveGrammar(ctx, GrammarInfo{Name: "test_grammar", Length: 12}, testGrammar())
	if err != nil {
		t.Fatalf("setup: SaveGrammar() failed: %v", err)
	}
	return ctx, s, info
}
