package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/gerunddev/markwalk/styles"
)

func (m viewerModel) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	if m.mode == modeFileTree {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.treeTable.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.vp.View())
		b.WriteString("\n")
	}

	b.WriteString(truncate.StringWithTail(m.statusLine(), uint(m.width), "…"))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m viewerModel) headerLine() string {
	h := styles.TitleStyle.Render("markwalk")
	switch {
	case m.mode == modeFileTree:
		h += "  " + styles.DimStyle.Render(m.provider.Root())
	case m.everOpen:
		h += "  " + m.path
		if t := m.doc.Title(); t != "" {
			h += "  " + styles.DimStyle.Render(t)
		}
	}
	return truncate.StringWithTail(h, uint(m.width), "…")
}

func (m viewerModel) statusLine() string {
	if m.mode == modeSearch {
		return m.input.View()
	}
	if m.status != "" {
		if m.statusErr {
			return styles.ErrorStyle.Render("✗ " + m.status)
		}
		return styles.DimStyle.Render(m.status)
	}
	switch m.mode {
	case modeSearchResults:
		return styles.HighlightStyle.Render(fmt.Sprintf("match %d/%d", m.current+1, len(m.matches))) +
			styles.DimStyle.Render(fmt.Sprintf(" for %q", m.query))
	case modeLinkSelect:
		if m.selected < len(m.anchors) {
			ref := m.anchors[m.selected]
			return styles.DimStyle.Render(fmt.Sprintf("link %d/%d ", m.selected+1, len(m.anchors))) +
				styles.LinkStyle.Render(ref.Anchor.Target)
		}
	case modeFileTree:
		return styles.DimStyle.Render(fmt.Sprintf("%d files in %s", m.tree.Len(), m.provider.Root()))
	default:
		if m.everOpen {
			pct := int(m.vp.ScrollPercent() * 100)
			return styles.DimStyle.Render(fmt.Sprintf("%d lines • %d%%", len(m.lines), pct))
		}
	}
	return ""
}

func (m viewerModel) helpLine() string {
	var h string
	switch m.mode {
	case modeLinkSelect:
		h = "tab/n next • shift+tab/p prev • enter open • esc cancel • q quit"
	case modeSearch:
		h = "enter find • esc cancel"
	case modeSearchResults:
		h = "n next • N prev • / new search • enter/esc done • q quit"
	case modeFileTree:
		h = "type to filter • ↑/↓ move • enter open • esc back • ctrl+c quit"
	default:
		h = "↑/k up • ↓/j down • d/u half page • g/G top/bottom • tab links • / search • t files • b back • r reload • q quit"
	}
	return truncate.StringWithTail(h, uint(m.width), "…")
}
