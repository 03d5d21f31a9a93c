package render

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed assets/about.md
var aboutMarkdown string

var markdownHTML = goldmark.New(goldmark.WithExtensions(extension.GFM))

// AboutMarkdown is the info page source.
func AboutMarkdown() string { return aboutMarkdown }

// HTML converts markdown to an HTML fragment.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdownHTML.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// AboutHTML renders the info page as an HTML fragment.
func AboutHTML() (string, error) { return HTML(aboutMarkdown) }

// Terminal renders markdown for a terminal. style is a glamour standard
// style name such as "dark", "light" or "notty".
func Terminal(src, style string) (string, error) {
	if style == "" {
		style = "auto"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}
