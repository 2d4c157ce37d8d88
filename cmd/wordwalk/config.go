package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/CTAG07/wordwalk/pkg/templating"
	"github.com/natefinch/atomic"
)

// ServerConfig holds the settings of the HTTP API and its backing services.
type ServerConfig struct {
	ApiAddr        string   `json:"api_addr"`
	LogLevel       string   `json:"log_level"`
	DatabasePath   string   `json:"database_path"`
	TemplateDir    string   `json:"template_dir"`
	AllowedOrigins []string `json:"allowed_origins"`
	MaxLength      int      `json:"max_length"`
	RequestTimeout int      `json:"request_timeout_sec"`
	RedisAddr      string   `json:"redis_addr"`
	RedisPassword  string   `json:"redis_password"`
	RedisDB        int      `json:"redis_db"`
	CacheTTLSec    int      `json:"cache_ttl_sec"`
}

// GenerationConfig holds the defaults used by the generate command.
type GenerationConfig struct {
	Length    int    `json:"length"`
	Separator string `json:"separator"`
	Strict    bool   `json:"strict"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server     *ServerConfig              `json:"server_config"`
	Templates  *templating.TemplateConfig `json:"template_config"`
	Generation *GenerationConfig          `json:"generation_config"`
}

// DefaultServerConfig creates a server configuration with default values.
// An empty RedisAddr disables the paragraph cache.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ApiAddr:        ":7280",
		LogLevel:       "info",
		DatabasePath:   "./data/wordwalk.db",
		TemplateDir:    "./data/templates",
		AllowedOrigins: []string{"*"},
		MaxLength:      10000,
		RequestTimeout: 30,
		RedisAddr:      "",
		RedisDB:        0,
		CacheTTLSec:    3600,
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	templates := templating.DefaultConfig()
	return &Config{
		Server:    DefaultServerConfig(),
		Templates: &templates,
		Generation: &GenerationConfig{
			Length:    grammar.DefaultLength,
			Separator: " ",
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it is created with default values. Sections
// missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = SaveConfig(path, config); err != nil {
				// The defaults are still usable without a file on disk.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Templates == nil {
		config.Templates = DefaultConfig().Templates
	}
	if config.Generation == nil {
		config.Generation = DefaultConfig().Generation
	}
	return config, nil
}

// SaveConfig atomically writes config to path as indented JSON.
func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
