// Package config handles configuration for offsum.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apierrors "github.com/diogo/offsum/internal/errors"
	"github.com/diogo/offsum/internal/models"
)

// Environment variables that override file values
const (
	EnvHome = "OFFSUM_HOME"
	EnvAddr = "OFFSUM_ADDR"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "dracula", "notty", "ascii" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// Variant picks the demo responder: "summarize" or "echo".
	Variant      string `json:"variant"`
	DefaultStyle string `json:"default_style"`
	// DemoSeed starts new sessions with a short demo conversation.
	DemoSeed bool   `json:"demo_seed"`
	TUITheme string `json:"tui_theme,omitempty"`
	// TypingDelayMs is the per-character delay of the typing effect.
	TypingDelayMs int `json:"typing_delay_ms"`
	// ThinkingDelayMs is the pause before a reply is appended.
	ThinkingDelayMs int `json:"thinking_delay_ms"`
	ServerAddr      string `json:"server_addr"`
	// SessionTTLMinutes is how long an idle web session is kept.
	SessionTTLMinutes int            `json:"session_ttl_minutes"`
	Verbose           bool           `json:"verbose"`
	CopyToClipboard   bool           `json:"copy_to_clipboard"`
	Markdown          MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Variant:           string(models.DefaultVariant),
		DefaultStyle:      string(models.DefaultStyle),
		DemoSeed:          false,
		TUITheme:          "midnight",
		TypingDelayMs:     30,
		ThinkingDelayMs:   1000,
		ServerAddr:        ":8501",
		SessionTTLMinutes: 60,
		Verbose:           false,
		CopyToClipboard:   false,
		Markdown:          DefaultMarkdownConfig(),
	}
}

// TypingDelay returns the typing effect delay per character
func (c Config) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMs) * time.Millisecond
}

// ThinkingDelay returns the pause before a reply
func (c Config) ThinkingDelay() time.Duration {
	return time.Duration(c.ThinkingDelayMs) * time.Millisecond
}

// SessionTTL returns how long idle sessions are kept
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Style returns the parsed default style
func (c Config) Style() (models.Style, error) {
	return models.ParseStyle(c.DefaultStyle)
}

// ReplyVariant returns the parsed variant
func (c Config) ReplyVariant() (models.Variant, error) {
	return models.ParseVariant(c.Variant)
}

// Validate checks that enumerated fields and delays are usable
func (c Config) Validate() error {
	if _, err := c.Style(); err != nil {
		return err
	}
	if _, err := c.ReplyVariant(); err != nil {
		return err
	}
	if c.TypingDelayMs < 0 || c.ThinkingDelayMs < 0 {
		return apierrors.NewConfigError("", "delays must not be negative", nil)
	}
	if strings.TrimSpace(c.ServerAddr) == "" {
		return apierrors.NewConfigError("", "server_addr must not be empty", nil)
	}
	if c.SessionTTLMinutes <= 0 {
		return apierrors.NewConfigError("", "session_ttl_minutes must be positive", nil)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".offsum"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path of the log file used by the chat TUI
func GetLogPath() (string, error) {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "offsum.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, apierrors.NewConfigError(configPath, "failed to read config file", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), apierrors.NewConfigError(configPath, "failed to parse config file", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), apierrors.NewConfigError(configPath, err.Error(), err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return apierrors.NewConfigError(configPath, "failed to write config file", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.ServerAddr = addr
	}
}
