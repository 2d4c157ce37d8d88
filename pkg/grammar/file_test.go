package grammar

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadFileYAML(t *testing.T) {
	g := loadMicrophoneGrammar(t)
	if len(g.Vocabulary) != 28 {
		t.Errorf("expected 28 words, got %d", len(g.Vocabulary))
	}
	if g.Vocabulary[0] != (Word{Text: "sausages", Type: "noun"}) {
		t.Errorf("first word = %+v", g.Vocabulary[0])
	}
	if !reflect.DeepEqual(g.Followers["verb"], []string{"conjunction", "noun", "adjective", "preposition"}) {
		t.Errorf("verb followers = %v", g.Followers["verb"])
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	g := loadMicrophoneGrammar(t)
	dir := t.TempDir()

	for _, name := range []string{"grammar.yaml", "grammar.json"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, g); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", name, err)
		}
		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s) failed: %v", name, err)
		}
		if loaded.Fingerprint() != g.Fingerprint() {
			t.Errorf("%s: reloaded grammar differs from the original", name)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json"), FormatJSON); err == nil {
		t.Error("expected a json parse error")
	}
	if _, err := Decode(strings.NewReader("followers: [unclosed"), FormatYAML); err == nil {
		t.Error("expected a yaml parse error")
	}
	g, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Errorf("empty yaml should decode to an empty grammar, got %v", err)
	}
	if len(g.Vocabulary) != 0 {
		t.Errorf("empty yaml produced %+v", g)
	}
}

func TestFingerprint(t *testing.T) {
	a := catSatGrammar()
	b := catSatGrammar()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal grammars must share a fingerprint")
	}
	b.Vocabulary[0], b.Vocabulary[1] = b.Vocabulary[1], b.Vocabulary[0]
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("vocabulary order changes the first word, so it must change the fingerprint")
	}
}

func TestFormatFromPath(t *testing.T) {
	if FormatFromPath("a/b.JSON") != FormatJSON || FormatFromPath("a.yml") != FormatYAML || FormatFromPath("a") != FormatYAML {
		t.Error("unexpected format detection")
	}
}
