package commands

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/streamchat/internal/api"
	"github.com/diogo/streamchat/internal/config"
	"github.com/diogo/streamchat/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewClient builds the backend client for the resolved configuration
	NewClient func(cfg config.Config, logger *zap.Logger) (api.ClientInterface, error)

	// RunChat starts the terminal chat interface
	RunChat func(opts tui.Options) error

	// LoadConfig returns the effective configuration; LoadStoredConfig only the file
	LoadConfig       func() (config.Config, error)
	LoadStoredConfig func() (config.Config, error)
	SaveConfig func(cfg config.Config) error
	ConfigPath func() (string, error)

	Clipboard func(text string) error

	// Interactive reports whether progress decoration should be drawn
	Interactive func() bool

	// Resolved by the root command before any subcommand runs
	cfg    config.Config
	logger *zap.Logger
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewClient:   newBackendClient,
		RunChat:     tui.RunChat,
		LoadConfig:       config.Load,
		LoadStoredConfig: config.LoadConfig,
		SaveConfig:       config.SaveConfig,
		ConfigPath:       config.GetConfigPath,
		Clipboard:        clipboard.WriteAll,
		Interactive:      isStderrTTY,
		logger:           zap.NewNop(),
	}
}

// Logger returns the configured logger, never nil
func (d *Dependencies) Logger() *zap.Logger {
	if d.logger == nil {
		return zap.NewNop()
	}
	return d.logger
}

// Config returns the resolved configuration
func (d *Dependencies) Config() config.Config {
	return d.cfg
}

func newBackendClient(cfg config.Config, logger *zap.Logger) (api.ClientInterface, error) {
	return api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithChatPath(cfg.ChatPath),
		api.WithUploadPath(cfg.UploadPath),
		api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		api.WithLogger(logger),
	)
}

func isStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
