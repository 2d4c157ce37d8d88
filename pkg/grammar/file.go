package grammar

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const (
	// FormatYAML selects YAML grammar files. It is the default.
	FormatYAML = "yaml"
	// FormatJSON selects JSON grammar files.
	FormatJSON = "json"
)

// FormatFromPath picks the grammar file format from a file extension.
func FormatFromPath(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Decode reads a grammar definition in the given format.
func Decode(r io.Reader, format string) (Grammar, error) {
	var g Grammar
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return Grammar{}, fmt.Errorf("failed to parse json grammar: %w", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && !errors.Is(err, io.EOF) {
			return Grammar{}, fmt.Errorf("failed to parse yaml grammar: %w", err)
		}
	}
	return g, nil
}

// Encode writes a grammar definition in the given format.
func Encode(w io.Writer, g Grammar, format string) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(g)
	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(g); err != nil {
			return err
		}
		return encoder.Close()
	}
}

// LoadFile reads a grammar file. Files ending in .json are parsed as JSON,
// everything else as YAML.
func LoadFile(path string) (Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return Grammar{}, fmt.Errorf("failed to open grammar file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return Decode(f, FormatFromPath(path))
}

// WriteFile atomically replaces the grammar file at path.
func WriteFile(path string, g Grammar) error {
	var buf bytes.Buffer
	if err := Encode(&buf, g, FormatFromPath(path)); err != nil {
		return fmt.Errorf("failed to encode grammar: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write grammar file: %w", err)
	}
	return nil
}

// Fingerprint returns a stable hex digest of the grammar's content. Two
// grammars with the same follower table and vocabulary order share it.
func (g Grammar) Fingerprint() string {
	// encoding/json sorts map keys, so the encoding is canonical.
	data, _ := json.Marshal(g)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
