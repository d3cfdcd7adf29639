// Package reply selects the canned demo response for a user turn.
package reply

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/diogo/offsum/internal/models"
)

// LengthThreshold is the character count above which input counts as content
const LengthThreshold = 200

// Canned replies
const (
	CannedParagraphReply = "Sure 😄 papa, aap apna paragraph de do — main usko **short summary** me convert kar dunga."
	PasteContentPrompt   = "Please apna paragraph ya content paste karein 🙂"
)

// Phrases that trigger the canned reply regardless of length
var triggerPhrases = []string{
	"summarize my large paragraph",
	"summarise my large paragraph",
}

// Bullet lines end in two spaces (markdown hard break)
const bulletTemplate = "**Summary Style:** %s\n\n" +
	"• Main idea extracted  \n" +
	"• Extra details removed  \n" +
	"• Simple & exam-friendly summary  \n\n" +
	"_(Demo output)_"

const echoTemplate = "✅ **Demo Response:**\n\nYour input was received successfully.\n\n```\n%s\n```"

// Responder produces the assistant reply for a user turn
type Responder interface {
	Reply(text string, style models.Style) string
}

// Select returns the style-aware demo reply for text
func Select(text string, style models.Style) string {
	lower := strings.ToLower(text)
	for _, phrase := range triggerPhrases {
		if strings.Contains(lower, phrase) {
			return CannedParagraphReply
		}
	}

	if utf8.RuneCountInString(text) > LengthThreshold {
		return fmt.Sprintf(bulletTemplate, style)
	}

	return PasteContentPrompt
}

// Echo returns the echo variant's reply for text
func Echo(text string) string {
	return fmt.Sprintf(echoTemplate, text)
}

// Summarizer answers with Select
type Summarizer struct{}

// Reply implements Responder
func (Summarizer) Reply(text string, style models.Style) string {
	return Select(text, style)
}

// Echoer answers with Echo and ignores the style
type Echoer struct{}

// Reply implements Responder
func (Echoer) Reply(text string, _ models.Style) string {
	return Echo(text)
}

// ForVariant returns the responder for a variant
func ForVariant(v models.Variant) (Responder, error) {
	parsed, err := models.ParseVariant(string(v))
	if err != nil {
		return nil, err
	}
	if parsed == models.VariantEcho {
		return Echoer{}, nil
	}
	return Summarizer{}, nil
}
