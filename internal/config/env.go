package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvBaseURL       = "STREAMCHAT_BASE_URL"
	EnvTheme         = "STREAMCHAT_THEME"
	EnvSpeechCommand = "STREAMCHAT_SPEECH_COMMAND"
	EnvLogFile       = "STREAMCHAT_LOG_FILE"
)

// LoadDotEnv loads KEY=value pairs from the given files (default ".env") into the
// process environment. Missing files are ignored; existing variables are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides onto cfg
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTheme); ValidTheme(v) {
		cfg.Theme = v
	}
	if v := os.Getenv(EnvSpeechCommand); v != "" {
		cfg.SpeechCommand = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

// Load reads the config file, then applies .env and environment overrides.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if envErr := LoadDotEnv(); envErr != nil && err == nil {
		err = envErr
	}
	return ApplyEnv(cfg), err
}
