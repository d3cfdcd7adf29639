// Package errors provides custom error types for offsum.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidStyle    = errors.New("invalid summary style")
	ErrInvalidVariant  = errors.New("invalid reply variant")
	ErrEmptyInput      = errors.New("empty input")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// InvalidStyleError reports a style name outside the fixed set
type InvalidStyleError struct {
	Name    string
	Allowed []string
}

func (e *InvalidStyleError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid summary style %q", e.Name)
	}
	return fmt.Sprintf("invalid summary style %q (choose one of: %s)", e.Name, strings.Join(e.Allowed, ", "))
}

// Is allows comparison with sentinel errors
func (e *InvalidStyleError) Is(target error) bool {
	if target == ErrInvalidStyle {
		return true
	}
	_, ok := target.(*InvalidStyleError)
	return ok
}

// NewInvalidStyleError creates a new InvalidStyleError
func NewInvalidStyleError(name string, allowed []string) *InvalidStyleError {
	return &InvalidStyleError{Name: name, Allowed: allowed}
}

// InvalidVariantError reports an unknown reply variant
type InvalidVariantError struct {
	Name string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid reply variant %q", e.Name)
}

// Is allows comparison with sentinel errors
func (e *InvalidVariantError) Is(target error) bool {
	if target == ErrInvalidVariant {
		return true
	}
	_, ok := target.(*InvalidVariantError)
	return ok
}

// NewInvalidVariantError creates a new InvalidVariantError
func NewInvalidVariantError(name string) *InvalidVariantError {
	return &InvalidVariantError{Name: name}
}

// SessionError represents a failed lookup in the session registry
type SessionError struct {
	ID string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// Is allows comparison with sentinel errors
func (e *SessionError) Is(target error) bool {
	if target == ErrSessionNotFound {
		return true
	}
	_, ok := target.(*SessionError)
	return ok
}

// NewSessionError creates a new SessionError
func NewSessionError(id string) *SessionError {
	return &SessionError{ID: id}
}

// ConfigError represents a configuration load or save failure
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error at %s: %s", e.Path, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ConfigError) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError creates a new ConfigError
func NewConfigError(path, message string, err error) *ConfigError {
	return &ConfigError{Path: path, Message: message, Err: err}
}

// IsInvalidStyle reports whether err is a style validation error
func IsInvalidStyle(err error) bool {
	return errors.Is(err, ErrInvalidStyle)
}

// IsInvalidVariant reports whether err is a variant validation error
func IsInvalidVariant(err error) bool {
	return errors.Is(err, ErrInvalidVariant)
}

// IsSessionNotFound reports whether err is a session lookup failure
func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// IsConfigError reports whether err came from loading or saving configuration
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// GetConfigPath extracts the config file path from a ConfigError
func GetConfigPath(err error) string {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Path
	}
	return ""
}
