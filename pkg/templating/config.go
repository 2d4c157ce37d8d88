package templating

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// MaxLength caps the length argument of the paragraph functions.
	MaxLength int

	// MaxRepeat caps the count given to repeat.
	MaxRepeat int

	// Separator is written after every generated word.
	Separator string

	// Strict validates a grammar before each generation, turning lazy
	// mid-walk failures into configuration errors.
	Strict bool
}

// DefaultConfig returns a TemplateConfig with safe default values.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		MaxLength: 1000,
		MaxRepeat: 100,
		Separator: " ",
		Strict:    false,
	}
}
