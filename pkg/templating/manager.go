package templating

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/CTAG07/wordwalk/pkg/grammar"
)

const (
	templateExt = ".tmpl"
	partialExt  = ".part"
)

// GrammarLoader provides the grammars that templates can generate from.
// *store.Store satisfies it.
type GrammarLoader interface {
	LoadAll(ctx context.Context) (map[string]grammar.Grammar, error)
}

// TemplateManager is the central controller for the templating engine.
// It manages the template set, configuration, function map and the grammar
// generators used by the content functions. All methods are concurrent-safe.
type TemplateManager struct {
	logger         *slog.Logger
	config         *TemplateConfig
	loader         GrammarLoader
	generators     map[string]*grammar.Generator
	extra          map[string]*grammar.Generator
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	templateDir    string
	mu             sync.RWMutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// The loader may be nil, in which case only grammars added with AddGrammar
// are available. It performs an initial Refresh to load all templates and
// grammars.
func NewTemplateManager(logger *slog.Logger, loader GrammarLoader, config TemplateConfig, templateDir string) (*TemplateManager, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tm := &TemplateManager{
		logger:      logger,
		config:      &config,
		loader:      loader,
		generators:  map[string]*grammar.Generator{},
		extra:       map[string]*grammar.Generator{},
		templateDir: templateDir,
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(context.Background()); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized")
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Grammar content (from funcs_content.go)
		"paragraph":       tm.paragraph,
		"seededParagraph": tm.seededParagraph,
		"sentence":        tm.sentence,
		"word":            tm.word,

		// Logic & Control (from funcs_logic.go)
		"repeat":       tm.repeat,
		"list":         list,
		"randomChoice": randomChoice,
		"randomInt":    randomInt,

		// Simple (from funcs_simple.go)
		"add":  add,
		"sub":  sub,
		"mult": mult,
		"div":  div,
		"mod":  mod,
		"inc":  inc,
		"dec":  dec,
	}
}

// SetConfig applies a new configuration without reloading templates.
func (tm *TemplateManager) SetConfig(config TemplateConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.config = &config
}

// AddGrammar registers an in-memory grammar under name. It survives Refresh
// and takes precedence over a loaded grammar with the same name.
func (tm *TemplateManager) AddGrammar(name string, g grammar.Grammar) error {
	gen, err := grammar.NewGenerator(g)
	if err != nil {
		return fmt.Errorf("grammar '%s': %w", name, err)
	}
	gen.SetLogger(tm.logger.With("grammar", name))

	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.extra[name] = gen
	tm.generators[name] = gen
	return nil
}

// Refresh reloads all templates from the filesystem and the grammars from the
// loader. This allows updates to both without restarting the application.
func (tm *TemplateManager) Refresh(ctx context.Context) error {
	var loaded map[string]grammar.Grammar
	if tm.loader != nil {
		var err error
		loaded, err = tm.loader.LoadAll(ctx)
		if err != nil {
			tm.logger.Error("failed to load grammars", "error", err)
			return err
		}
	}

	generators := make(map[string]*grammar.Generator, len(loaded))
	for name, g := range loaded {
		gen, err := grammar.NewGenerator(g)
		if err != nil {
			tm.logger.Error("failed to build grammar", "grammar", name, "error", err)
			return fmt.Errorf("grammar '%s': %w", name, err)
		}
		gen.SetLogger(tm.logger.With("grammar", name))
		generators[name] = gen
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	for name, gen := range tm.extra {
		generators[name] = gen
	}
	tm.generators = generators
	tm.logger.Info("Loaded grammars", "count", len(generators))

	return tm.parseTemplates()
}

// parseTemplates parses every full template and partial in the template dir.
// The caller must hold the write lock.
func (tm *TemplateManager) parseTemplates() error {
	root := template.New("").Funcs(tm.funcMap)
	var names []string

	if tm.templateDir != "" {
		parsed, err := root.ParseGlob(filepath.Join(tm.templateDir, "*"+templateExt))
		if err != nil && !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse template files", "error", err)
			return err
		}
		if err == nil {
			root = parsed
			for _, t := range parsed.Templates() {
				if strings.HasSuffix(t.Name(), templateExt) {
					names = append(names, t.Name())
				}
			}
		}

		parsed, err = root.ParseGlob(filepath.Join(tm.templateDir, "*"+partialExt))
		if err != nil && !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse partial files", "error", err)
			return err
		}
		if err == nil {
			root = parsed
		}
	}

	if len(names) == 0 {
		tm.logger.Warn("No template files found", "dir", tm.templateDir)
	}
	sort.Strings(names)

	clean, err := root.Clone()
	if err != nil {
		tm.logger.Error("failed to create a clean clone of templates", "error", err)
		return err
	}

	tm.templates = root
	tm.cleanTemplates = clean
	tm.templateNames = names
	tm.logger.Info("Loaded template files", "count", len(names))
	return nil
}

// Execute renders a specific template by name, writing the output to w.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templates.ExecuteTemplate(w, name, data)
}

// ExecuteTemplateString parses and executes a raw template string using the
// manager's function map. Loaded partials can be referenced from it.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	// Clone the clean, unexecuted template set so this never touches the shared one.
	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}

	t, err := tempSet.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	return t.Execute(w, data)
}

// GetRandomTemplate returns the name of a randomly selected full template,
// or "" when none are loaded.
func (tm *TemplateManager) GetRandomTemplate() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if len(tm.templateNames) == 0 {
		return ""
	}
	return tm.templateNames[rand.IntN(len(tm.templateNames))]
}

// GetTemplateNames returns the sorted names of the loaded full templates.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	names := make([]string, len(tm.templateNames))
	copy(names, tm.templateNames)
	return names
}

// GetGrammarNames returns the sorted names of the grammars templates can use.
func (tm *TemplateManager) GetGrammarNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	names := make([]string, 0, len(tm.generators))
	for name := range tm.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetConfig returns a copy of the current configuration.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateDir returns the template dir that the TemplateManager uses.
func (tm *TemplateManager) GetTemplateDir() string {
	return tm.templateDir
}
