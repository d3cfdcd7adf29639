package render

import "strings"

// Markdown renders content for the terminal using a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	tr, err := shared.borrow(opts)
	if err != nil {
		return "", err
	}
	defer shared.giveBack(opts, tr)

	return tr.Render(content)
}

// Reply renders an assistant reply for display inside a bubble. The raw text
// is returned when the style cannot be loaded. Blank lines glamour adds
// around the document are trimmed.
func Reply(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
