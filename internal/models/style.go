package models

import (
	"strings"

	apierrors "github.com/diogo/offsum/internal/errors"
)

// Style is the summary style selected in the sidebar
type Style string

// Available summary styles, in radio order
const (
	StyleShort        Style = "Short"
	StyleDetailed     Style = "Detailed"
	StyleBulletPoints Style = "Bullet Points"
	StyleExamReady    Style = "Exam Ready"
)

// DefaultStyle is the first radio option
const DefaultStyle = StyleShort

// Styles returns all summary styles in display order
func Styles() []Style {
	return []Style{StyleShort, StyleDetailed, StyleBulletPoints, StyleExamReady}
}

// StyleNames returns the style labels for selection lists
func StyleNames() []string {
	styles := Styles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return names
}

// ParseStyle resolves a style label, ignoring case and surrounding whitespace.
// Dashes and underscores are accepted in place of spaces ("bullet-points").
func ParseStyle(name string) (Style, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)

	for _, s := range Styles() {
		if strings.ToLower(string(s)) == normalized {
			return s, nil
		}
	}
	return "", apierrors.NewInvalidStyleError(name, StyleNames())
}

// Index returns the radio position of the style, or -1 if unknown
func (s Style) Index() int {
	for i, candidate := range Styles() {
		if candidate == s {
			return i
		}
	}
	return -1
}

func (s Style) String() string {
	return string(s)
}
