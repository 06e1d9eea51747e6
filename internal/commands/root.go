// Package commands provides CLI commands for streamchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/streamchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags override configuration for a single invocation
type globalFlags struct {
	baseURL string
	logFile string
	theme   string
	verbose bool
}

// NewRootCmd creates the streamchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}

	var flags globalFlags
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "streamchat [prompt]",
		Short: "Terminal client for a streaming chat backend",
		Long: `streamchat talks to a chat backend that streams its replies token by token.
It can also send files for text extraction and capture voice input through an
external speech recognizer.

Run without arguments to start the interactive chat.

Examples:
  streamchat                              Start interactive chat
  streamchat "What is Go?"                Ask a single question
  streamchat -f prompt.md                 Read the question from a file
  cat prompt.md | streamchat              Read the question from stdin
  streamchat upload report.pdf            Extract text from a file
  streamchat config set theme dark        Change a setting`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.resolve(cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = deps.Logger().Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, ok, err := readPrompt(deps.Stdin, fileFlag, args)
			if err != nil {
				return err
			}
			if ok {
				return runAsk(cmd.Context(), deps, prompt, askOptions{})
			}
			return runChat(deps)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Backend origin (e.g., http://localhost:8000)")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write structured logs to this file")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "Color theme: light or dark")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")

	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewUploadCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// rootCmd is the production command tree
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// resolve loads configuration, applies flag overrides and builds the logger
func (d *Dependencies) resolve(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := d.LoadConfig()
	if err != nil {
		fmt.Fprintf(d.Stderr, "Warning: %v (using defaults)\n", err)
	}

	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	if flags.theme != "" {
		if !config.ValidTheme(flags.theme) {
			return fmt.Errorf("invalid theme %q (use %s or %s)", flags.theme, config.ThemeLight, config.ThemeDark)
		}
		cfg.Theme = flags.theme
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flags.verbose
	}

	logger, err := newLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}

	d.cfg = cfg
	d.logger = logger
	return nil
}

// readPrompt resolves the prompt from --file, piped stdin or the positional
// argument, in that order. ok is false when no prompt was given.
func readPrompt(stdin io.Reader, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether stdin carries data rather than a terminal
func hasPipedInput(stdin io.Reader) bool {
	if stdin == nil {
		return false
	}
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
