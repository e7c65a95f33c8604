// Package markdown renders Markdown documents for the terminal
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns Markdown into terminal output
type Renderer interface {
	Render(content string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render returns content as is
func (PlainRenderer) Render(content string) string {
	return content
}

// GlamourRenderer renders with glamour
type GlamourRenderer struct {
	// Style is "auto", "dark", "light", "notty" or a path to a style file
	Style string
	// Width wraps lines; 0 leaves glamour's default
	Width int
}

// NewGlamourRenderer returns a renderer that picks its style from the
// terminal background
func NewGlamourRenderer(width int) *GlamourRenderer {
	return &GlamourRenderer{Style: "auto", Width: width}
}

// Render falls back to the raw Markdown when glamour fails
func (r *GlamourRenderer) Render(content string) string {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
