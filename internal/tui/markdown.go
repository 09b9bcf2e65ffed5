package tui

import "github.com/charmbracelet/glamour"

// noMarginStyle removes glamour's document margins so rendered
// documents sit flush inside the viewport.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// newMarkdownRenderer builds a glamour renderer for document bodies.
// The fixed dark style avoids the terminal background query that
// WithAutoStyle performs, which leaks escape responses into the input
// stream.
func newMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
}

// renderMarkdown renders a document body, falling back to the raw text
// if rendering fails.
func renderMarkdown(content string, width int) string {
	r, err := newMarkdownRenderer(width)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
