package store

import "testing"

func TestGetStats(t *testing.T) {
	ctx, s, info := setupTestDBWithGrammar(t)
	if err := s.InsertGrammar(ctx, GrammarInfo{Name: "empty"}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if len(stats.Grammars) != 2 || stats.Grammars[0].Name != "empty" {
		t.Errorf("grammars should be sorted by name, got %+v", stats.Grammars)
	}

	got := stats.Stats[info.Id]
	want := GrammarStats{Words: 5, Types: 3, Rules: 3, Transitions: 4}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
