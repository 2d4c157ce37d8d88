package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Server.ApiAddr != DefaultServerConfig().ApiAddr {
		t.Errorf("expected default api addr, got %q", config.Server.ApiAddr)
	}
	if _, err = os.Stat(path); err != nil {
		t.Fatalf("default config file should have been written: %v", err)
	}

	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading the written defaults failed: %v", err)
	}
	if again.Generation.Length != config.Generation.Length || again.Templates.MaxLength != config.Templates.MaxLength {
		t.Error("written defaults should load back unchanged")
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"server_config": {"api_addr": ":9999", "log_level": "debug"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Server.ApiAddr != ":9999" || config.Server.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", config.Server)
	}
	if config.Server.MaxLength != DefaultServerConfig().MaxLength {
		t.Errorf("missing fields should keep defaults, got %d", config.Server.MaxLength)
	}
	if config.Templates == nil || config.Generation == nil {
		t.Fatal("missing sections should keep defaults")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	config := DefaultConfig()
	config.Server.RedisAddr = "localhost:6379"
	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.RedisAddr != "localhost:6379" {
		t.Errorf("saved value lost, got %q", loaded.Server.RedisAddr)
	}
}
