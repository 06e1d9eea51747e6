package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/streamchat/internal/history"
	"github.com/diogo/streamchat/internal/render"
	"github.com/diogo/streamchat/internal/speech"
	"github.com/diogo/streamchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Replies stream in as they are generated. Press Ctrl+O to upload a file,
Ctrl+R to speak (when a speech command is configured), Ctrl+T to switch
between light and dark themes and Esc or Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps)
		},
	}
}

func runChat(deps *Dependencies) error {
	cfg := deps.Config()
	logger := deps.Logger()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	logger.Info("starting chat",
		zap.String("base_url", cfg.BaseURL),
		zap.String("theme", cfg.Theme))

	return deps.RunChat(tui.Options{
		Client:   client,
		Probe:    speech.CommandProbe(cfg.SpeechCommand, time.Duration(cfg.SpeechTimeout)*time.Second, logger),
		Policy:   history.NewPolicy(cfg.ContextMessages, cfg.ContextChars),
		Logger:   logger,
		Greeting: cfg.Greeting,
		Theme:    cfg.Theme,
		Render:   render.OptionsFromConfig(cfg),
	})
}
