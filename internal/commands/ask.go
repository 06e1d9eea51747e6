package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/streamchat/internal/render"
)

// askOptions controls single-question output
type askOptions struct {
	output   string
	copy     bool
	markdown bool
}

// NewAskCmd creates the single-question command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var opts askOptions
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask a single question and stream the reply",
		Long: `Send one message without history and stream the reply to stdout.

The prompt comes from --file, piped stdin or the argument, in that order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, ok, err := readPrompt(deps.Stdin, fileFlag, args)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("prompt cannot be empty")
			}
			return runAsk(cmd.Context(), deps, prompt, opts)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Render the finished reply as markdown instead of streaming raw text")

	return cmd
}

// runAsk sends one message and writes the streamed reply
func runAsk(ctx context.Context, deps *Dependencies, prompt string, opts askOptions) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := deps.Config()
	logger := deps.Logger()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	interactive := deps.Interactive != nil && deps.Interactive()
	spin := newSpinner(deps.Stderr, "Waiting for reply")
	if interactive {
		spin.start()
	}

	events, err := client.StreamChat(ctx, prompt, nil)
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Request failed"))
		return fmt.Errorf("request failed: %w", err)
	}

	// Raw text streams straight through; markdown and file output wait for the whole reply
	streaming := !opts.markdown && opts.output == ""

	var reply string
	var streamErr error
	firstFragment := true
	for ev := range events {
		if ev.Err != nil {
			reply = ev.Text
			streamErr = ev.Err
			break
		}
		if ev.Done {
			reply = ev.Text
			break
		}
		if firstFragment {
			spin.clear()
			firstFragment = false
		}
		if streaming {
			fmt.Fprint(deps.Stdout, ev.Delta)
		}
		reply = ev.Text
	}
	spin.clear()

	if streaming && reply != "" {
		fmt.Fprintln(deps.Stdout)
	}

	if streamErr != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(streamErr, "Stream interrupted"))
		return fmt.Errorf("stream interrupted: %w", streamErr)
	}

	logger.Debug("ask finished", zap.Int("reply_chars", len(reply)))

	if opts.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(reply); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(deps.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(deps.Stderr, clipMsg)
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", opts.output),
		)
		fmt.Fprintln(deps.Stderr, successMsg)
		return nil
	}

	if opts.markdown {
		fmt.Fprintln(deps.Stdout, render.Reply(reply, render.OptionsFromConfig(cfg), replyWidth()))
	}

	return nil
}

// replyWidth fits the reply bubble to the terminal
func replyWidth() int {
	width := getTerminalWidth() - 4
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}
	return width
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
