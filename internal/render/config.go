package render

import (
	"os"

	"github.com/diogo/streamchat/internal/config"
)

// OptionsFromConfig builds reply options from the user configuration.
// GLAMOUR_STYLE takes precedence over the theme's markdown style.
func OptionsFromConfig(cfg config.Config) Options {
	md := cfg.Markdown
	opts := Options{
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}.ForTheme(cfg.Theme)

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
