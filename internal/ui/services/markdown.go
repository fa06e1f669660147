// Package services holds rendering helpers used by the views.
package services

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const defaultWidth = 80

// MarkdownRenderer renders markdown for a terminal of the given width.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders markdown with glamour. Term renderers are cached
// per width since building one parses the whole style sheet.
type GlamourRenderer struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	style     string
}

// NewGlamourRenderer creates a renderer using the dark glamour style.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{
		renderers: make(map[int]*glamour.TermRenderer),
		style:     "dark",
	}
}

// Render implements MarkdownRenderer.
func (g *GlamourRenderer) Render(content string, width int) (string, error) {
	r, err := g.renderer(width)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

func (g *GlamourRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(g.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	g.renderers[width] = r
	return r, nil
}

// RenderMarkdown renders content and trims the padding glamour adds around it.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	if width <= 0 {
		width = defaultWidth
	}
	out, err := renderer.Render(content, width)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
