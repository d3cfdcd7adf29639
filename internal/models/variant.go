package models

import (
	"strings"

	apierrors "github.com/diogo/offsum/internal/errors"
)

// Variant selects which demo responder answers the user
type Variant string

const (
	// VariantSummarize answers with the style-aware canned summary
	VariantSummarize Variant = "summarize"
	// VariantEcho echoes the input back in a code block
	VariantEcho Variant = "echo"
)

// DefaultVariant is used when nothing is configured
const DefaultVariant = VariantSummarize

// Variants returns all reply variants
func Variants() []Variant {
	return []Variant{VariantSummarize, VariantEcho}
}

// ParseVariant resolves a variant name, ignoring case
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(VariantSummarize):
		return VariantSummarize, nil
	case string(VariantEcho):
		return VariantEcho, nil
	default:
		return "", apierrors.NewInvalidVariantError(name)
	}
}
