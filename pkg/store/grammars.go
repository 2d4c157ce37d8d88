package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/CTAG07/wordwalk/pkg/grammar"
)

// GrammarInfo holds the metadata of a stored grammar: its unique ID, name, and
// the paragraph length used when a caller does not ask for one.
type GrammarInfo struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// GetGrammarInfos retrieves metadata for all grammars in the database, keyed by name.
func (s *Store) GetGrammarInfos(ctx context.Context) (map[string]GrammarInfo, error) {
	rows, err := s.stmtGetGrammars.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	grammars := make(map[string]GrammarInfo)
	for rows.Next() {
		var info GrammarInfo
		if err = rows.Scan(&info.Id, &info.Name, &info.Length); err != nil {
			return nil, err
		}
		grammars[info.Name] = info
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return grammars, nil
}

// GetGrammarInfo retrieves the metadata for a single grammar. It returns
// sql.ErrNoRows if no grammar has that name.
func (s *Store) GetGrammarInfo(ctx context.Context, name string) (GrammarInfo, error) {
	info := GrammarInfo{Name: name}
	err := s.stmtGetGrammar.QueryRowContext(ctx, name).Scan(&info.Id, &info.Length)
	if err != nil {
		return GrammarInfo{}, err
	}
	return info, nil
}

// InsertGrammar creates a new, empty grammar. A non-positive Length is stored
// as grammar.DefaultLength.
func (s *Store) InsertGrammar(ctx context.Context, info GrammarInfo) error {
	if info.Name == "" {
		return fmt.Errorf("grammar name must not be empty")
	}
	if info.Length <= 0 {
		info.Length = grammar.DefaultLength
	}
	_, err := s.stmtAddGrammar.ExecContext(ctx, info.Name, info.Length)
	return err
}

// RemoveGrammar deletes a grammar with all of its words and rules. The
// operation is performed within a transaction.
func (s *Store) RemoveGrammar(ctx context.Context, info GrammarInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, table := range []string{"grammar_followers", "grammar_rules", "grammar_words", "grammar_grammars"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE grammar_id = ?", info.Id); err != nil {
			return fmt.Errorf("failed to remove %s for grammar %d: %w", table, info.Id, err)
		}
	}

	s.logger.InfoContext(ctx, "Grammar removed successfully",
		slog.String("grammar_name", info.Name),
		slog.Int("grammar_id", info.Id),
	)

	return tx.Commit()
}

// AddWords appends words to a grammar's vocabulary within one transaction.
// A word whose text is already stored replaces the stored type but keeps its
// position in the registration order.
func (s *Store) AddWords(ctx context.Context, info GrammarInfo, words []grammar.Word) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = s.addWordsTx(ctx, tx, info.Id, words); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "Words added",
		slog.String("grammar_name", info.Name),
		slog.Int("words", len(words)),
	)
	return tx.Commit()
}

func (s *Store) addWordsTx(ctx context.Context, tx *sql.Tx, grammarID int, words []grammar.Word) error {
	stmtAddWord := tx.StmtContext(ctx, s.stmtAddWord)
	for _, w := range words {
		if w.Text == "" || w.Type == "" {
			return fmt.Errorf("%w: text %q and type %q must both be non-empty", grammar.ErrInvalidWord, w.Text, w.Type)
		}
		if _, err := stmtAddWord.ExecContext(ctx, grammarID, grammarID, w.Text, w.Type); err != nil {
			return fmt.Errorf("failed to insert word '%s': %w", w.Text, err)
		}
	}
	return nil
}

// SetFollowers replaces the follower list of one word type. An empty list is
// stored as an entry with no successors.
func (s *Store) SetFollowers(ctx context.Context, info GrammarInfo, wordType string, followers []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = s.setFollowersTx(ctx, tx, info.Id, wordType, followers); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "Followers set",
		slog.String("grammar_name", info.Name),
		slog.String("word_type", wordType),
		slog.Int("followers", len(followers)),
	)
	return tx.Commit()
}

func (s *Store) setFollowersTx(ctx context.Context, tx *sql.Tx, grammarID int, wordType string, followers []string) error {
	if wordType == "" {
		return fmt.Errorf("word type must not be empty")
	}
	if _, err := tx.StmtContext(ctx, s.stmtAddRule).ExecContext(ctx, grammarID, wordType); err != nil {
		return fmt.Errorf("failed to insert rule for '%s': %w", wordType, err)
	}
	if _, err := tx.StmtContext(ctx, s.stmtClearRule).ExecContext(ctx, grammarID, wordType); err != nil {
		return fmt.Errorf("failed to clear followers of '%s': %w", wordType, err)
	}
	stmtAddFollower := tx.StmtContext(ctx, s.stmtAddFollower)
	for i, f := range followers {
		if f == "" {
			return fmt.Errorf("follower %d of '%s' is empty", i, wordType)
		}
		if _, err := stmtAddFollower.ExecContext(ctx, grammarID, wordType, i, f); err != nil {
			return fmt.Errorf("failed to insert follower '%s' -> '%s': %w", wordType, f, err)
		}
	}
	return nil
}

// Load reads a stored grammar: vocabulary in registration order and the full
// follower table.
func (s *Store) Load(ctx context.Context, info GrammarInfo) (grammar.Grammar, error) {
	g := grammar.Grammar{Followers: grammar.FollowerTable{}}

	rows, err := s.stmtGetWords.QueryContext(ctx, info.Id)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("could not query words: %w", err)
	}
	for rows.Next() {
		var w grammar.Word
		if err = rows.Scan(&w.Text, &w.Type); err != nil {
			_ = rows.Close()
			return grammar.Grammar{}, err
		}
		g.Vocabulary = append(g.Vocabulary, w)
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return grammar.Grammar{}, err
	}

	rRows, err := s.stmtGetRules.QueryContext(ctx, info.Id)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("could not query rules: %w", err)
	}
	for rRows.Next() {
		var wordType string
		if err = rRows.Scan(&wordType); err != nil {
			_ = rRows.Close()
			return grammar.Grammar{}, err
		}
		g.Followers[wordType] = []string{}
	}
	_ = rRows.Close()
	if err = rRows.Err(); err != nil {
		return grammar.Grammar{}, err
	}

	fRows, err := s.stmtGetFollowers.QueryContext(ctx, info.Id)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("could not query followers: %w", err)
	}
	for fRows.Next() {
		var wordType, follower string
		if err = fRows.Scan(&wordType, &follower); err != nil {
			_ = fRows.Close()
			return grammar.Grammar{}, err
		}
		g.Followers[wordType] = append(g.Followers[wordType], follower)
	}
	_ = fRows.Close()
	if err = fRows.Err(); err != nil {
		return grammar.Grammar{}, err
	}

	return g, nil
}

// LoadAll reads every stored grammar, keyed by name.
func (s *Store) LoadAll(ctx context.Context) (map[string]grammar.Grammar, error) {
	infos, err := s.GetGrammarInfos(ctx)
	if err != nil {
		return nil, err
	}
	grammars := make(map[string]grammar.Grammar, len(infos))
	for name, info := range infos {
		g, err := s.Load(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("failed to load grammar '%s': %w", name, err)
		}
		grammars[name] = g
	}
	return grammars, nil
}

// NewGenerator loads a stored grammar and builds a Generator that logs to the
// store's logger.
func (s *Store) NewGenerator(ctx context.Context, info GrammarInfo) (*grammar.Generator, error) {
	g, err := s.Load(ctx, info)
	if err != nil {
		return nil, err
	}
	gen, err := grammar.NewGenerator(g)
	if err != nil {
		return nil, err
	}
	gen.SetLogger(s.logger.With(slog.String("grammar_name", info.Name)))
	return gen, nil
}
