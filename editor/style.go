package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/lattice/annotate"
)

// Style controls the editor's rendering.
type Style struct {
	Gutter        lipgloss.Style
	GutterMarker  lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	// Widget styles line widgets whose class has no entry in Widgets.
	Widget  lipgloss.Style
	Widgets map[string]lipgloss.Style
	// Classes styles lines carrying a text or background line class.
	Classes map[string]lipgloss.Style
}

func DefaultStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Gutter:        gutter,
		GutterMarker:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          lipgloss.NewStyle(),
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Widget:        lipgloss.NewStyle().Faint(true),
		Widgets: map[string]lipgloss.Style{
			annotate.Error.Class():   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			annotate.Warning.Class(): lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			annotate.Info.Class():    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		},
		Classes: map[string]lipgloss.Style{},
	}
}
