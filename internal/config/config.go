// Package config handles configuration for streamchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diogo/streamchat/internal/models"
)

// Theme names for the light/dark presentation toggle
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	EnableEmoji      bool `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the backend origin; chat and upload paths are joined to it.
	BaseURL    string `json:"base_url"`
	ChatPath   string `json:"chat_path"`
	UploadPath string `json:"upload_path"`
	// RequestTimeout bounds a whole request in seconds, including the streamed body (0 = no limit).
	RequestTimeout int `json:"request_timeout"`

	Theme string `json:"theme"`
	// Greeting seeds the conversation. An explicit empty string disables it.
	Greeting string `json:"greeting"`

	// ContextMessages keeps only the newest N messages as request history (0 = all).
	ContextMessages int `json:"context_messages"`
	// ContextChars keeps the newest messages whose content fits in N characters (0 = no limit).
	ContextChars int `json:"context_chars"`

	// SpeechCommand is the external recognizer; stdout's first line is the transcript.
	SpeechCommand string `json:"speech_command,omitempty"`
	SpeechTimeout int    `json:"speech_timeout"`

	Verbose         bool           `json:"verbose"`
	LogFile         string         `json:"log_file,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        models.DefaultBaseURL,
		ChatPath:       models.DefaultChatPath,
		UploadPath:     models.DefaultUploadPath,
		Theme:          ThemeLight,
		Greeting:       models.DefaultGreeting,
		SpeechTimeout:  15,
		Markdown:       DefaultMarkdownConfig(),
	}
}

// ChatURL returns the absolute chat endpoint
func (c Config) ChatURL() string {
	return joinURL(c.BaseURL, c.ChatPath)
}

// UploadURL returns the absolute upload endpoint
func (c Config) UploadURL() string {
	return joinURL(c.BaseURL, c.UploadPath)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".streamchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the settable configuration keys in display order
func Keys() []string {
	return []string{
		"base_url",
		"chat_path",
		"upload_path",
		"request_timeout",
		"theme",
		"greeting",
		"context_messages",
		"context_chars",
		"speech_command",
		"speech_timeout",
		"verbose",
		"log_file",
		"copy_to_clipboard",
	}
}

// Set assigns value to the configuration key, validating its type
func Set(cfg *Config, key, value string) error {
	switch key {
	case "base_url":
		cfg.BaseURL = value
	case "chat_path":
		cfg.ChatPath = value
	case "upload_path":
		cfg.UploadPath = value
	case "greeting":
		cfg.Greeting = value
	case "speech_command":
		cfg.SpeechCommand = value
	case "log_file":
		cfg.LogFile = value
	case "theme":
		if !ValidTheme(value) {
			return fmt.Errorf("invalid theme %q (use %s or %s)", value, ThemeLight, ThemeDark)
		}
		cfg.Theme = value
	case "request_timeout", "context_messages", "context_chars", "speech_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		switch key {
		case "request_timeout":
			cfg.RequestTimeout = n
		case "context_messages":
			cfg.ContextMessages = n
		case "context_chars":
			cfg.ContextChars = n
		case "speech_timeout":
			cfg.SpeechTimeout = n
		}
	case "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		if key == "verbose" {
			cfg.Verbose = b
		} else {
			cfg.CopyToClipboard = b
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// ValidTheme reports whether name is a supported presentation theme
func ValidTheme(name string) bool {
	return name == ThemeLight || name == ThemeDark
}
