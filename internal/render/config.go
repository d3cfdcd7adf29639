package render

import (
	"os"

	"github.com/diogo/offsum/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// OptionsFromConfig maps the markdown section of cfg to render options.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Emoji = cfg.Markdown.EnableEmoji
	opts.KeepNewlines = cfg.Markdown.PreserveNewLines

	switch {
	case os.Getenv(EnvStyle) != "":
		opts.Style = os.Getenv(EnvStyle)
	case cfg.Markdown.Style != "":
		opts.Style = cfg.Markdown.Style
	}
	return opts
}
