package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/streamchat/internal/config"
)

// NewConfigCmd creates the configuration command group
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Inspect and edit the streamchat configuration file.

Settable keys:
  ` + strings.Join(config.Keys(), "\n  "),
	}

	cmd.AddCommand(newConfigShowCmd(deps))
	cmd.AddCommand(newConfigSetCmd(deps))
	cmd.AddCommand(newConfigPathCmd(deps))

	return cmd
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(deps.Config(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	}
}

func newConfigSetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting in the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			// Environment and flags must not leak into the saved file
			cfg, err := deps.LoadStoredConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := config.Set(&cfg, key, value); err != nil {
				return err
			}
			if err := deps.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			deps.Logger().Sugar().Debugw("config updated", "key", key)

			msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ %s = %s", key, value),
			)
			fmt.Fprintln(deps.Stdout, msg)
			return nil
		},
	}
}

func newConfigPathCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := deps.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	}
}
