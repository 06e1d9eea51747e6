package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/diogo/streamchat/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL http://localhost:8000, got '%s'", cfg.BaseURL)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("Expected default theme light, got '%s'", cfg.Theme)
	}
	if cfg.Greeting != models.DefaultGreeting {
		t.Errorf("Unexpected default greeting %q", cfg.Greeting)
	}
	if cfg.ContextMessages != 0 || cfg.ContextChars != 0 {
		t.Error("Context window should be unbounded by default")
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("Requests should not time out by default, got %ds", cfg.RequestTimeout)
	}
}

func TestEndpointURLs(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:8000", "/chat", "http://localhost:8000/chat"},
		{"http://localhost:8000/", "/chat", "http://localhost:8000/chat"},
		{"http://api.local/v1", "upload", "http://api.local/v1/upload"},
	}

	for _, tt := range tests {
		cfg := Config{BaseURL: tt.base, ChatPath: tt.path, UploadPath: tt.path}
		if got := cfg.ChatURL(); got != tt.want {
			t.Errorf("ChatURL(%s, %s) = %s, want %s", tt.base, tt.path, got, tt.want)
		}
		if got := cfg.UploadURL(); got != tt.want {
			t.Errorf("UploadURL(%s, %s) = %s, want %s", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath() returned relative path: %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".streamchat" {
		t.Errorf("GetConfigPath() should live under .streamchat, got %s", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("BaseURL = %s, want default", cfg.BaseURL)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.BaseURL = "http://backend:9000"
	cfg.Theme = ThemeDark
	cfg.ContextMessages = 12

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".streamchat", "config.json")
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL || loaded.Theme != cfg.Theme || loaded.ContextMessages != 12 {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configDir := filepath.Join(tmpDir, ".streamchat")
	_ = os.MkdirAll(configDir, 0o700)
	data, _ := json.Marshal(map[string]any{"theme": "dark"})
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("Theme = %s, want dark", cfg.Theme)
	}
	if cfg.Greeting != models.DefaultGreeting {
		t.Errorf("Greeting should keep default, got %q", cfg.Greeting)
	}
}

func TestLoadConfig_ExplicitEmptyGreeting(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configDir := filepath.Join(tmpDir, ".streamchat")
	_ = os.MkdirAll(configDir, 0o700)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"greeting":""}`), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, _ := LoadConfig()
	if cfg.Greeting != "" {
		t.Errorf("Greeting = %q, want empty", cfg.Greeting)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configDir := filepath.Join(tmpDir, ".streamchat")
	_ = os.MkdirAll(configDir, 0o700)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"invalid": json`), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() with invalid JSON should return error")
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("BaseURL = %s, want default on error", cfg.BaseURL)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"base_url", "http://x", false, func(c Config) bool { return c.BaseURL == "http://x" }},
		{"theme", "dark", false, func(c Config) bool { return c.Theme == ThemeDark }},
		{"theme", "solarized", true, nil},
		{"context_messages", "8", false, func(c Config) bool { return c.ContextMessages == 8 }},
		{"context_chars", "-1", true, nil},
		{"speech_timeout", "abc", true, nil},
		{"verbose", "true", false, func(c Config) bool { return c.Verbose }},
		{"copy_to_clipboard", "yes", true, nil},
		{"greeting", "", false, func(c Config) bool { return c.Greeting == "" }},
		{"nope", "1", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := Set(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%s, %s) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestKeysAreSettable(t *testing.T) {
	for _, key := range Keys() {
		cfg := DefaultConfig()
		value := "1"
		switch key {
		case "theme":
			value = "dark"
		case "verbose", "copy_to_clipboard":
			value = "false"
		}
		if err := Set(&cfg, key, value); err != nil {
			t.Errorf("key %s listed but not settable: %v", key, err)
		}
	}
}
