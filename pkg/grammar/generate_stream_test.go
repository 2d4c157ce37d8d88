package grammar

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateStreamMatchesGenerate(t *testing.T) {
	gen := setupGenerator(t, loadMicrophoneGrammar(t))
	ctx := context.Background()

	expected, err := gen.Generate(ctx, WithLength(40), WithSeed(11))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	steps, err := gen.GenerateStream(ctx, WithLength(40), WithSeed(11))
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}

	var sb strings.Builder
	count := 0
	for step := range steps {
		if step.Err != nil {
			t.Fatalf("unexpected stream error: %v", step.Err)
		}
		if step.Index != count {
			t.Errorf("step index = %d, want %d", step.Index, count)
		}
		sb.WriteString(step.Text)
		count++
	}
	if count != 40 {
		t.Errorf("stream produced %d steps, want 40", count)
	}
	if sb.String() != expected {
		t.Errorf("stream output differs from Generate:\n%q\n%q", sb.String(), expected)
	}
}

func TestGenerateStreamFailure(t *testing.T) {
	gen := setupGenerator(t, Grammar{
		Followers:  FollowerTable{"noun": {"verb"}},
		Vocabulary: []Word{{Text: "cat", Type: "noun"}},
	})

	steps, err := gen.GenerateStream(context.Background(), WithLength(3))
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}

	var got []Step
	for step := range steps {
		got = append(got, step)
	}
	if len(got) != 2 {
		t.Fatalf("expected one word and one error step, got %d steps", len(got))
	}
	if got[0].Word.Text != "cat" {
		t.Errorf("first step = %+v", got[0])
	}
	if !errors.Is(got[1].Err, ErrNoCandidateWord) {
		t.Errorf("last step error = %v, want ErrNoCandidateWord", got[1].Err)
	}
}

func TestGenerateStreamInvalidOptions(t *testing.T) {
	gen := setupGenerator(t, catSatGrammar())
	if _, err := gen.GenerateStream(context.Background(), WithLength(-3)); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}

func TestGenerateStreamCancel(t *testing.T) {
	gen := setupGenerator(t, catSatGrammar())
	ctx, cancel := context.WithCancel(context.Background())

	steps, err := gen.GenerateStream(ctx, WithLength(1000))
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	<-steps
	cancel()

	// The producer must stop and close the channel.
	count := 0
	for range steps {
		count++
	}
	if count >= 999 {
		t.Errorf("stream kept producing after cancel: %d more steps", count)
	}
}
