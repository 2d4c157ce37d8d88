package store

import (
	"context"
	"sort"
)

// DBStats holds aggregated statistics for the entire database, including a
// list of all grammars and their individual stats.
type DBStats struct {
	Grammars []GrammarInfo        `json:"grammars"` // A list of grammars in the database, sorted by name
	Stats    map[int]GrammarStats `json:"stats"`    // A mapping of grammar ids to their stats
}

// GrammarStats holds aggregated statistics for a single grammar.
type GrammarStats struct {
	Words       int `json:"words"`       // The number of distinct words in the vocabulary.
	Types       int `json:"types"`       // The number of word types that have at least one word.
	Rules       int `json:"rules"`       // The number of word types with a follower table entry.
	Transitions int `json:"transitions"` // The total length of all follower lists.
}

// GetStats returns a snapshot of statistics for every stored grammar.
func (s *Store) GetStats(ctx context.Context) (*DBStats, error) {
	infos, err := s.GetGrammarInfos(ctx)
	if err != nil {
		return nil, err
	}

	grammars := make([]GrammarInfo, 0, len(infos))
	stats := make(map[int]GrammarStats, len(infos))
	for _, info := range infos {
		grammars = append(grammars, info)

		var gs GrammarStats
		if err = s.stmtCountWords.QueryRowContext(ctx, info.Id).Scan(&gs.Words); err != nil {
			return nil, err
		}
		if err = s.stmtCountTypes.QueryRowContext(ctx, info.Id).Scan(&gs.Types); err != nil {
			return nil, err
		}
		if err = s.stmtCountRules.QueryRowContext(ctx, info.Id).Scan(&gs.Rules); err != nil {
			return nil, err
		}
		if err = s.stmtCountFollower.QueryRowContext(ctx, info.Id).Scan(&gs.Transitions); err != nil {
			return nil, err
		}
		stats[info.Id] = gs
	}

	sort.Slice(grammars, func(i, j int) bool {
		return grammars[i].Name < grammars[j].Name
	})

	return &DBStats{
		Grammars: grammars,
		Stats:    stats,
	}, nil
}
