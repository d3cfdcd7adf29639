package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/offsum/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat resolves "markdown"/"md" and "json"; empty means markdown
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", name)
	}
}

// ExportToMarkdown renders the log as a Markdown transcript
func (l *Log) ExportToMarkdown(style models.Style) string {
	messages := l.Messages()

	var sb strings.Builder
	sb.WriteString("# Offline Summarization Tool\n\n")
	sb.WriteString(fmt.Sprintf("**Summary Style:** %s\n", style))
	sb.WriteString(fmt.Sprintf("**Updated:** %s\n", l.UpdatedAt().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		role := "User"
		if !msg.IsUser() {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		// Separator between messages (except last)
		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportTranscript struct {
	Style     models.Style     `json:"style"`
	UpdatedAt time.Time        `json:"updated_at"`
	Messages  []models.Message `json:"messages"`
}

// ExportToJSON renders the log as indented JSON
func (l *Log) ExportToJSON(style models.Style) ([]byte, error) {
	return json.MarshalIndent(exportTranscript{
		Style:     style,
		UpdatedAt: l.UpdatedAt(),
		Messages:  l.Messages(),
	}, "", "  ")
}

// Export renders the log in the given format
func (l *Log) Export(format ExportFormat, style models.Style) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return l.ExportToJSON(style)
	case ExportFormatMarkdown:
		return []byte(l.ExportToMarkdown(style)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
