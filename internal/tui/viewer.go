// Package tui implements the interactive markdown viewer: a bubbletea
// model owning the navigation state machine, the rendered document
// cache, and the paint path from styled lines to the terminal.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/markwalk/internal/files"
	"github.com/gerunddev/markwalk/internal/layout"
	"github.com/gerunddev/markwalk/internal/logger"
	"github.com/gerunddev/markwalk/internal/markdown"
	"github.com/gerunddev/markwalk/internal/search"
	"github.com/gerunddev/markwalk/styles"
)

// mode is the viewer's input mode.
type mode int

const (
	modeBrowsing mode = iota
	modeLinkSelect
	modeSearch
	modeSearchResults
	modeFileTree
)

// location is one back-stack entry: a file and the scroll offset to
// return to.
type location struct {
	path   string
	offset int
}

// loadRequest describes one file load unit: what to read and how to
// position and record it once it completes.
type loadRequest struct {
	path    string    // provider path to load
	anchor  string    // heading anchor to land on, without "#"
	offset  int       // explicit offset to restore (go-back)
	restore bool      // use offset instead of anchor
	reload  bool      // same file changed: keep offset and mode
	push    *location // back-stack entry recorded on success
	pop     bool      // drop the top back-stack entry on success
}

// docLoadedMsg delivers a completed load unit. Stale tokens are
// discarded so the latest request always wins.
type docLoadedMsg struct {
	token string
	req   loadRequest
	doc   *markdown.Document
	lines []layout.Line
	width int
	err   error
}

// treeLoadedMsg delivers a fresh file listing.
type treeLoadedMsg struct {
	entries []files.Entry
	err     error
}

// fileEventMsg is a change reported by the filesystem watcher.
type fileEventMsg files.Event

type viewerModel struct {
	provider files.Provider
	watcher  *files.Watcher
	log      *logger.Logger
	maxWidth int

	mode  mode
	ready bool

	// Active document
	path      string
	doc       *markdown.Document
	lines     []layout.Line
	anchors   []layout.AnchorRef
	laidWidth int

	startPath string
	everOpen  bool

	vp     viewport.Model
	width  int
	height int

	back     []location
	selected int // anchor index in link-select mode

	input   textinput.Model
	query   string
	matches []search.Match
	current int

	tree      *files.Tree
	treeTable table.Model

	pendingLoad string
	status      string
	statusErr   bool
}

// InitViewerModel creates the viewer. startPath is the file to open,
// relative to the provider root; when empty the viewer starts in the
// file tree. watcher may be nil to disable live reload.
func InitViewerModel(provider files.Provider, watcher *files.Watcher, log *logger.Logger, startPath string, maxWidth int) viewerModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.CharLimit = 120

	columns := []table.Column{
		{Title: "File", Width: 40},
		{Title: "Title", Width: 30},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	m := viewerModel{
		provider:  provider,
		watcher:   watcher,
		log:       log,
		maxWidth:  maxWidth,
		startPath: startPath,
		vp:        viewport.New(0, 0),
		input:     ti,
		treeTable: t,
		tree:      files.NewTree(nil),
	}
	if startPath == "" {
		m.mode = modeFileTree
		m.input.Prompt = "filter: "
		m.input.Placeholder = ""
		m.input.Focus()
	}
	return m
}

func (m viewerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listCmd(), textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForEvent())
	}
	return tea.Batch(cmds...)
}

// contentWidth is the column budget handed to layout: the viewport
// width, optionally capped by config.
func (m viewerModel) contentWidth() int {
	w := m.vp.Width
	if m.maxWidth > 0 && w > m.maxWidth {
		w = m.maxWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (m viewerModel) maxOffset() int {
	max := len(m.lines) - m.vp.Height
	if max < 0 {
		max = 0
	}
	return max
}

func (m viewerModel) clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if max := m.maxOffset(); offset > max {
		return max
	}
	return offset
}
