package cli

import (
	"strings"

	"github.com/bastiangx/fuzzword/pkg/fuzzy"
	"github.com/charmbracelet/lipgloss"
)

// Renderer turns display spans into terminal text.
type Renderer struct {
	styles  map[fuzzy.Category]lipgloss.Style
	noColor bool
}

// NewRenderer builds the default styles. With noColor set the spans are
// joined verbatim.
func NewRenderer(noColor bool) *Renderer {
	return &Renderer{
		noColor: noColor,
		styles: map[fuzzy.Category]lipgloss.Style{
			fuzzy.CategoryOutside: lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"}),
			fuzzy.CategoryInside: lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
			fuzzy.CategoryMatched: lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		},
	}
}

// Render styles each span by its category. CategoryNone text is left as is.
func (r *Renderer) Render(spans []fuzzy.Span) string {
	if r.noColor {
		return fuzzy.Text(spans)
	}
	var b strings.Builder
	for _, span := range spans {
		style, ok := r.styles[span.Category]
		if !ok {
			b.WriteString(span.Text)
			continue
		}
		b.WriteString(style.Render(span.Text))
	}
	return b.String()
}
