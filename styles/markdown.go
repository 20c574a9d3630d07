package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/markwalk/internal/layout"
)

// Markdown element styles
var (
	CodeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	LinkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue)).Underline(true)
	ImageStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	QuoteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment)).Italic(true)
	RuleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Border))
	ListMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	TableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Border))

	// Overlay styles for the viewer
	SearchMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Yellow))

	ActiveMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Orange))

	SelectedLinkStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Blue))
)

// Heading colors by level, H1 first. Deeper levels reuse the last entry.
var headingColors = []string{Magenta, Yellow, Green, Cyan, Blue, Orange}

// Heading returns the style for a heading of the given level
func Heading(level int) lipgloss.Style {
	if level < 1 {
		level = 1
	}
	if level > len(headingColors) {
		level = len(headingColors)
	}
	st := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(headingColors[level-1]))
	if level == 1 {
		st = st.Underline(true)
	}
	return st
}

// For maps a layout style to its terminal rendering
func For(s layout.Style) lipgloss.Style {
	var st lipgloss.Style
	switch s.Kind {
	case layout.KindHeading:
		st = Heading(s.Level)
	case layout.KindCode, layout.KindCodeBlock:
		st = CodeStyle
	case layout.KindLink:
		st = LinkStyle
	case layout.KindImage:
		st = ImageStyle
	case layout.KindQuote:
		st = QuoteStyle
	case layout.KindRule:
		st = RuleStyle
	case layout.KindListMarker:
		st = ListMarkerStyle
	case layout.KindTableHeader:
		st = TableHeaderStyle
	case layout.KindTableBorder:
		st = TableBorderStyle
	default:
		st = NormalTextStyle
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	return st
}
