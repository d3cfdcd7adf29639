package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/offsum/internal/config"
	"github.com/diogo/offsum/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(opts tui.Options) error
	RunConfig(cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// StdinIsPipe reports whether input is piped in rather than typed.
	StdinIsPipe func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(opts tui.Options) error {
	return tui.RunChat(opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:         &DefaultTUI{},
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Clipboard:   clipboard.WriteAll,
		StdinIsPipe: stdinIsPipe,
	}
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
