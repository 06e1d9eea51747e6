package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/diogo/streamchat/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Theme = config.ThemeDark
	cfg.Markdown.EnableEmoji = false
	cfg.Markdown.InlineTableLinks = true

	want := Options{
		Theme:            config.ThemeDark,
		Style:            StyleDark,
		EnableEmoji:      false,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: true,
	}
	if diff := cmp.Diff(want, OptionsFromConfig(cfg)); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFromConfig_DefaultsMatchDefaultOptions(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	if diff := cmp.Diff(DefaultOptions(), OptionsFromConfig(config.DefaultConfig())); diff != "" {
		t.Errorf("default config should give default options (-want +got):\n%s", diff)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "dracula")

	opts := OptionsFromConfig(config.DefaultConfig())
	if opts.Style != "dracula" {
		t.Errorf("expected Style='dracula' from env, got %s", opts.Style)
	}
	if opts.Theme != config.ThemeLight {
		t.Errorf("palette should still follow the theme, got %s", opts.Theme)
	}
}
