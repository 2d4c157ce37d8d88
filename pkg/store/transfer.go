package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/wordwalk/pkg/grammar"
)

// ExportedGrammar is the serializable representation of a stored grammar,
// used for JSON-based import and export.
type ExportedGrammar struct {
	Name       string                `json:"name"`
	Length     int                   `json:"length"`
	Followers  grammar.FollowerTable `json:"followers"`
	Vocabulary []grammar.Word        `json:"vocabulary"`
}

// ExportGrammar serializes a stored grammar as JSON and writes it to w.
func (s *Store) ExportGrammar(ctx context.Context, info GrammarInfo, w io.Writer) error {
	g, err := s.Load(ctx, info)
	if err != nil {
		return err
	}

	exported := ExportedGrammar{
		Name:       info.Name,
		Length:     info.Length,
		Followers:  g.Followers,
		Vocabulary: g.Vocabulary,
	}

	s.logger.InfoContext(ctx, "Grammar exported",
		slog.String("grammar_name", info.Name),
		slog.Int("grammar_id", info.Id),
		slog.Int("words_exported", len(g.Vocabulary)),
		slog.Int("rules_exported", len(g.Followers)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

// ImportGrammar reads an ExportedGrammar from r and merges it into the
// database. A new grammar is created if the name is unknown; otherwise words
// are upserted and the follower lists of every imported type are replaced.
// The entire operation is transactional.
func (s *Store) ImportGrammar(ctx context.Context, r io.Reader) (GrammarInfo, error) {
	var imported ExportedGrammar
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return GrammarInfo{}, fmt.Errorf("failed to decode json grammar: %w", err)
	}
	if imported.Name == "" {
		return GrammarInfo{}, fmt.Errorf("imported grammar has no name")
	}
	if imported.Length <= 0 {
		imported.Length = grammar.DefaultLength
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GrammarInfo{}, fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	info := GrammarInfo{Name: imported.Name}
	err = tx.StmtContext(ctx, s.stmtGetGrammar).QueryRowContext(ctx, imported.Name).Scan(&info.Id, &info.Length)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.StmtContext(ctx, s.stmtAddGrammar).ExecContext(ctx, imported.Name, imported.Length)
		if err != nil {
			return GrammarInfo{}, fmt.Errorf("failed to insert new grammar '%s': %w", imported.Name, err)
		}
		newID, _ := res.LastInsertId()
		info.Id = int(newID)
		info.Length = imported.Length
	} else if err != nil {
		return GrammarInfo{}, fmt.Errorf("failed to query for grammar '%s': %w", imported.Name, err)
	}

	if err = s.addWordsTx(ctx, tx, info.Id, imported.Vocabulary); err != nil {
		return GrammarInfo{}, err
	}
	for _, wordType := range imported.Followers.Types() {
		if err = s.setFollowersTx(ctx, tx, info.Id, wordType, imported.Followers[wordType]); err != nil {
			return GrammarInfo{}, err
		}
	}

	s.logger.InfoContext(ctx, "Grammar imported successfully",
		slog.String("grammar_name", info.Name),
		slog.Int("target_grammar_id", info.Id),
		slog.Int("words_merged", len(imported.Vocabulary)),
		slog.Int("rules_merged", len(imported.Followers)),
	)

	if err = tx.Commit(); err != nil {
		return GrammarInfo{}, err
	}
	return info, nil
}

// SaveGrammar stores g under info.Name, creating the grammar when needed.
// It is ImportGrammar for an in-memory grammar.
func (s *Store) SaveGrammar(ctx context.Context, info GrammarInfo, g grammar.Grammar) (GrammarInfo, error) {
	data, err := json.Marshal(ExportedGrammar{
		Name:       info.Name,
		Length:     info.Length,
		Followers:  g.Followers,
		Vocabulary: g.Vocabulary,
	})
	if err != nil {
		return GrammarInfo{}, err
	}
	return s.ImportGrammar(ctx, bytes.NewReader(data))
}
