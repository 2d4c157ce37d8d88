package templating

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/CTAG07/wordwalk/pkg/grammar"
)

// generator returns the generator registered for name.
// The caller must hold at least a read lock.
func (tm *TemplateManager) generator(name string) (*grammar.Generator, error) {
	gen, ok := tm.generators[name]
	if !ok {
		return nil, fmt.Errorf("grammar '%s' not found", name)
	}
	return gen, nil
}

func (tm *TemplateManager) generateOptions(length int) []grammar.GenerateOption {
	if length > tm.config.MaxLength {
		length = tm.config.MaxLength
	}
	return []grammar.GenerateOption{
		grammar.WithLength(length),
		grammar.WithSeparator(tm.config.Separator),
		grammar.WithStrict(tm.config.Strict),
	}
}

// paragraph walks the named grammar for length words.
func (tm *TemplateManager) paragraph(name string, length int) (string, error) {
	gen, err := tm.generator(name)
	if err != nil {
		return "", err
	}
	text, err := gen.Generate(context.Background(), tm.generateOptions(length)...)
	if err != nil {
		tm.logger.Error("paragraph: generation failed", "grammar", name, "error", err)
		return "", fmt.Errorf("paragraph from '%s': %w", name, err)
	}
	return text, nil
}

// seededParagraph is paragraph with a fixed seed, so the same arguments
// always render the same text.
func (tm *TemplateManager) seededParagraph(name string, length, seed int) (string, error) {
	gen, err := tm.generator(name)
	if err != nil {
		return "", err
	}
	opts := append(tm.generateOptions(length), grammar.WithSeed(int64(seed)))
	text, err := gen.Generate(context.Background(), opts...)
	if err != nil {
		tm.logger.Error("seededParagraph: generation failed", "grammar", name, "seed", seed, "error", err)
		return "", fmt.Errorf("paragraph from '%s' with seed %d: %w", name, seed, err)
	}
	return text, nil
}

// sentence renders a paragraph without the trailing separator, capitalizes
// the first letter and ends it with a period.
func (tm *TemplateManager) sentence(name string, length int) (string, error) {
	gen, err := tm.generator(name)
	if err != nil {
		return "", err
	}
	words, err := gen.GenerateWords(context.Background(), tm.generateOptions(length)...)
	if err != nil {
		return "", fmt.Errorf("sentence from '%s': %w", name, err)
	}
	if len(words) == 0 {
		return "", nil
	}

	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	s := strings.Join(texts, tm.config.Separator)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:] + ".", nil
}

// word returns a random word of the given type from the named grammar.
func (tm *TemplateManager) word(name, wordType string) (string, error) {
	gen, err := tm.generator(name)
	if err != nil {
		return "", err
	}
	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	w, err := gen.Lexicon().RandomOfType(r, wordType)
	if err != nil {
		return "", fmt.Errorf("word from '%s': %w", name, err)
	}
	return w.Text, nil
}
