// Package render draws assistant replies as themed markdown bubbles.
package render

// Options controls how reply markdown is rendered
type Options struct {
	// Theme picks the bubble palette, "light" or "dark"
	Theme string

	// Style is a glamour standard style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns light-theme options with the markdown defaults of the config file
func DefaultOptions() Options {
	return Options{
		Theme:            "light",
		Style:            StyleLight,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// ForTheme switches the palette and the matching markdown style. A custom style
// (GLAMOUR_STYLE or a style file) is kept across theme changes.
func (o Options) ForTheme(theme string) Options {
	o.Theme = theme
	if o.Style == "" || o.Style == StyleLight || o.Style == StyleDark {
		o.Style = StyleForTheme(theme)
	}
	return o
}
