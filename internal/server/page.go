package server

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/diogo/offsum/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// markdown renders assistant replies. Raw HTML in the source is omitted.
var markdown = goldmark.New()

type styleOption struct {
	Name     string
	Selected bool
}

type pageMessage struct {
	User bool
	Text string
	HTML template.HTML
}

type pageData struct {
	ShowStyles   bool
	Styles       []styleOption
	Messages     []pageMessage
	WelcomeTitle string
	WelcomeText  string
}

func newPageData(messages []models.Message, current models.Style, variant models.Variant) pageData {
	data := pageData{
		ShowStyles:   variant != models.VariantEcho,
		WelcomeTitle: "👋 Ready when you are",
		WelcomeText:  "Type what you want to summarize",
	}
	if variant == models.VariantEcho {
		data.WelcomeTitle = "What can I help with?"
		data.WelcomeText = "Paste text or ask a question to get started"
	}

	for _, s := range models.Styles() {
		data.Styles = append(data.Styles, styleOption{Name: s.String(), Selected: s == current})
	}

	for _, m := range messages {
		if m.IsUser() {
			data.Messages = append(data.Messages, pageMessage{User: true, Text: m.Content})
			continue
		}
		data.Messages = append(data.Messages, pageMessage{HTML: renderHTML(m.Content)})
	}
	return data
}

// renderHTML converts a reply to HTML, escaping it verbatim if conversion fails
func renderHTML(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}
