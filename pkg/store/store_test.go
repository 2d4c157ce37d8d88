package store

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/CTAG07/wordwalk/pkg/grammar"
)

func TestSetupSchemaIdempotent(t *testing.T) {
	db, _ := setupTestDB(t)
	if err := SetupSchema(db); err != nil {
		t.Errorf("second SetupSchema() failed: %v", err)
	}
}

func TestInsertAndGetGrammarInfo(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	if err := s.InsertGrammar(ctx, GrammarInfo{Name: "test_grammar"}); err != nil {
		t.Fatalf("InsertGrammar() failed: %v", err)
	}

	info, err := s.GetGrammarInfo(ctx, "test_grammar")
	if err != nil {
		t.Fatalf("GetGrammarInfo: expected no error, got %v", err)
	}
	if info.Name != "test_grammar" || info.Length != grammar.DefaultLength || info.Id == 0 {
		t.Errorf("got unexpected grammar info: %+v", info)
	}

	if _, err = s.GetGrammarInfo(ctx, "nonexistent"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for nonexistent grammar, got %v", err)
	}

	if err = s.InsertGrammar(ctx, GrammarInfo{Name: "test_grammar"}); err == nil {
		t.Error("expected an error when inserting a duplicate name, but got nil")
	}
	if err = s.InsertGrammar(ctx, GrammarInfo{}); err == nil {
		t.Error("expected an error for an empty name")
	}
}

func TestGetGrammarInfos(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	_ = s.InsertGrammar(ctx, GrammarInfo{Name: "one", Length: 5})
	_ = s.InsertGrammar(ctx, GrammarInfo{Name: "two", Length: 50})

	infos, err := s.GetGrammarInfos(ctx)
	if err != nil {
		t.Fatalf("GetGrammarInfos failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 grammars, got %d", len(infos))
	}
	if infos["one"].Length != 5 || infos["two"].Length != 50 {
		t.Errorf("unexpected lengths: %+v", infos)
	}
}

func TestSaveAndLoadGrammar(t *testing.T) {
	ctx, s, info := setupTestDBWithGrammar(t)

	loaded, err := s.Load(ctx, info)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := testGrammar()
	if !reflect.DeepEqual(loaded.Vocabulary, want.Vocabulary) {
		t.Errorf("vocabulary = %+v\nwant %+v", loaded.Vocabulary, want.Vocabulary)
	}
	if !reflect.DeepEqual(loaded.Followers, want.Followers) {
		t.Errorf("followers = %+v\nwant %+v", loaded.Followers, want.Followers)
	}
	if loaded.Fingerprint() != want.Fingerprint() {
		t.Error("stored grammar should fingerprint like the original")
	}
}

func TestAddWordsKeepsPosition(t *testing.T) {
	ctx, s, info := setupTestDBWithGrammar(t)

	err := s.AddWords(ctx, info, []grammar.Word{
		{Text: "fish", Type: "verb"},
		{Text: "shark", Type: "noun"},
	})
	if err != nil {
		t.Fatalf("AddWords failed: %v", err)
	}

	loaded, err := s.Load(ctx, info)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Vocabulary[0] != (grammar.Word{Text: "fish", Type: "verb"}) {
		t.Errorf("replaced word should keep position 0, got %+v", loaded.Vocabulary[0])
	}
	last := loaded.Vocabulary[len(loaded.Vocabulary)-1]
	if last != (grammar.Word{Text: "shark", Type: "noun"}) {
		t.Errorf("new word should be appended, got %+v", last)
	}
	if len(loaded.Vocabulary) != 6 {
		t.Errorf("expected 6 words, got %d", len(loaded.Vocabulary))
	}

	if err = s.AddWords(ctx, info, []grammar.Word{{Text: "", Type: "noun"}}); !errors.Is(err, grammar.ErrInvalidWord) {
		t.Errorf("expected ErrInvalidWord, got %v", err)
	}
}

func TestSetFollowers(t *testing.T) {
	ctx, s, info := setupTestDBWithGrammar(t)

	if err := s.SetFollowers(ctx, info, "verb", []string{"adjective", "noun"}); err != nil {
		t.Fatalf("SetFollowers failed: %v", err)
	}
	if err := s.SetFollowers(ctx, info, "dead_end", nil); err != nil {
		t.Fatalf("SetFollowers with empty list failed: %v", err)
	}

	loaded, err := s.Load(ctx, info)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Followers["verb"], []string{"adjective", "noun"}) {
		t.Errorf("verb followers = %v", loaded.Followers["verb"])
	}
	followers, ok := loaded.Followers["dead_end"]
	if !ok || len(followers) != 0 {
		t.Errorf("empty follower list should load as an empty entry, got %v, %v", followers, ok)
	}

	if err = s.SetFollowers(ctx, info, "", []string{"noun"}); err == nil {
		t.Error("expected an error for an empty word type")
	}
}

func TestRemoveGrammar(t *testing.T) {
	ctx, s, info := setupTestDBWithGrammar(t)
	keep, err := s.SaveGrammar(ctx, GrammarInfo{Name: "to_keep"}, testGrammar())
	if err != nil {
		t.Fatal(err)
	}

	if err = s.RemoveGrammar(ctx, info); err != nil {
		t.Fatalf("RemoveGrammar failed: %v", err)
	}
	if _, err = s.GetGrammarInfo(ctx, info.Name); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows for deleted grammar, got %v", err)
	}

	var count int
	_ = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM grammar_words WHERE grammar_id = ?", info.Id).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 words for deleted grammar, found %d", count)
	}

	kept, err := s.Load(ctx, keep)
	if err != nil || len(kept.Vocabulary) != 5 {
		t.Errorf("other grammar should be untouched, got %+v, %v", kept, err)
	}
}

func TestStoreNewGenerator(t *testing.T) {
	ctx, s, info := setupTestDBWithGrammar(t)

	gen, err := s.NewGenerator(ctx, info)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if err = gen.Validate(); err != nil {
		t.Errorf("stored grammar should validate: %v", err)
	}
	words, err := gen.GenerateWords(ctx, grammar.WithLength(info.Length), grammar.WithSeed(4))
	if err != nil {
		t.Fatalf("GenerateWords failed: %v", err)
	}
	if len(words) != 12 || words[0].Text != "fish" {
		t.Errorf("unexpected paragraph: %+v", words)
	}
}

func TestLoadAll(t *testing.T) {
	ctx, s, _ := setupTestDBWithGrammar(t)
	if _, err := s.SaveGrammar(ctx, GrammarInfo{Name: "other"}, grammar.Grammar{
		Followers:  grammar.FollowerTable{"x": {"x"}},
		Vocabulary: []grammar.Word{{Text: "x", Type: "x"}},
	}); err != nil {
		t.Fatal(err)
	}

	all, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 2 || len(all["other"].Vocabulary) != 1 || len(all["test_grammar"].Vocabulary) != 5 {
		t.Errorf("unexpected LoadAll result: %+v", all)
	}
}
