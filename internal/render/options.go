// Package render turns assistant replies into styled terminal output.
package render

// Minimum wrap width; narrower bubbles would break the bullet lines mid-word.
const minWidth = 10

// Options selects how a reply is rendered. It is comparable and doubles as
// the key of the renderer pool.
type Options struct {
	// Style is a glamour style name or a path to a JSON style file
	Style string
	// Width is the word-wrap column
	Width int
	// Emoji converts :shortcodes: to unicode
	Emoji bool
	// KeepNewlines preserves the hard breaks of the bullet template
	KeepNewlines bool
}

// DefaultOptions returns dark, 80 columns, emoji and newlines on
func DefaultOptions() Options {
	return Options{
		Style:        "dark",
		Width:        80,
		Emoji:        true,
		KeepNewlines: true,
	}
}

// WithWidth returns a copy wrapping at width, never below minWidth
func (o Options) WithWidth(width int) Options {
	o.Width = max(width, minWidth)
	return o
}

// WithStyle returns a copy using style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// MarkdownStyles lists the built-in glamour styles offered in the config menu.
func MarkdownStyles() []string {
	return []string{"dark", "light", "dracula", "tokyo-night", "pink", "ascii", "notty"}
}
