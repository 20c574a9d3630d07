package tui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/gerunddev/markwalk/internal/files"
	"github.com/gerunddev/markwalk/internal/layout"
	"github.com/gerunddev/markwalk/internal/markdown"
	"github.com/gerunddev/markwalk/internal/search"
)

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg)

	case tea.KeyMsg:
		// Status messages are transient: any keypress clears them.
		m.status = ""
		m.statusErr = false

		switch m.mode {
		case modeLinkSelect:
			return m.updateLinkSelect(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeSearchResults:
			return m.updateSearchResults(msg)
		case modeFileTree:
			return m.updateFileTree(msg)
		default:
			return m.updateBrowsing(msg)
		}

	case docLoadedMsg:
		return m.applyLoad(msg)

	case treeLoadedMsg:
		return m.applyTree(msg)

	case fileEventMsg:
		return m.applyFileEvent(msg)
	}

	return m, nil
}

func (m viewerModel) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	first := !m.ready
	m.ready = true
	m.width = msg.Width
	m.height = msg.Height

	m.vp.Width = msg.Width
	m.vp.Height = msg.Height - 3
	if m.vp.Height < 1 {
		m.vp.Height = 1
	}
	m.input.Width = msg.Width - 12

	th := msg.Height - 6
	if th < 1 {
		th = 1
	}
	m.treeTable.SetHeight(th)
	fileWidth := msg.Width / 2
	titleWidth := msg.Width - fileWidth - 6
	if fileWidth < 10 {
		fileWidth = 10
	}
	if titleWidth < 10 {
		titleWidth = 10
	}
	m.treeTable.SetColumns([]table.Column{
		{Title: "File", Width: fileWidth},
		{Title: "Title", Width: titleWidth},
	})

	if m.doc != nil && m.contentWidth() != m.laidWidth {
		m.relayout()
	}
	if first && m.startPath != "" {
		return m.startLoad(loadRequest{path: m.startPath})
	}
	return m, nil
}

// relayout re-flows the active document at the current width, keeping
// the scroll position and search state as close as possible.
func (m *viewerModel) relayout() {
	lines, err := layout.Layout(m.doc, m.contentWidth())
	if err != nil {
		return
	}
	offset := m.vp.YOffset
	m.lines = lines
	m.laidWidth = m.contentWidth()
	m.anchors = layout.CollectAnchors(lines)
	if m.selected >= len(m.anchors) {
		m.selected = 0
	}
	if m.mode == modeSearchResults {
		m.rerunSearch()
	}
	m.repaint()
	m.vp.SetYOffset(m.clampOffset(offset))
}

// rerunSearch refreshes the match list after the lines changed under an
// active result set.
func (m *viewerModel) rerunSearch() {
	m.matches = search.Find(m.lines, m.query)
	if len(m.matches) == 0 {
		m.mode = modeBrowsing
		m.status = "no matches"
		return
	}
	if m.current >= len(m.matches) {
		m.current = 0
	}
}

func (m viewerModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "l":
		return m.enterLinkSelect()
	case "/":
		return m.enterSearch()
	case "t":
		return m.enterTree()
	case "b", "backspace":
		return m.goBack()
	case "r":
		if m.everOpen {
			m.pendingLoad = ""
			return m.startLoad(loadRequest{path: m.path, reload: true})
		}
		return m, nil
	}
	m.scrollKey(msg.String())
	return m, nil
}

// scrollKey applies one of the shared scroll motions, reporting whether
// the key was one of them.
func (m *viewerModel) scrollKey(key string) bool {
	switch key {
	case "up", "k":
		m.vp.LineUp(1)
	case "down", "j":
		m.vp.LineDown(1)
	case "u", "ctrl+u":
		m.vp.LineUp(m.vp.Height / 2)
	case "d", "ctrl+d":
		m.vp.LineDown(m.vp.Height / 2)
	case "pgup":
		m.vp.LineUp(m.vp.Height)
	case "pgdown", " ":
		m.vp.LineDown(m.vp.Height)
	case "g", "home":
		m.vp.GotoTop()
	case "G", "end":
		m.vp.GotoBottom()
	default:
		return false
	}
	return true
}

func (m viewerModel) enterLinkSelect() (tea.Model, tea.Cmd) {
	if len(m.anchors) == 0 {
		m.status = "no links"
		return m, nil
	}
	m.pendingLoad = ""
	m.mode = modeLinkSelect
	m.selected = m.nearestAnchor()
	m.showAnchor()
	m.repaint()
	return m, nil
}

// nearestAnchor picks the first anchor at or below the top of the
// viewport, falling back to the last one above it.
func (m viewerModel) nearestAnchor() int {
	for i, ref := range m.anchors {
		if ref.Line >= m.vp.YOffset {
			return i
		}
	}
	return len(m.anchors) - 1
}

// showAnchor scrolls just far enough to bring the selected anchor into
// view.
func (m *viewerModel) showAnchor() {
	line := m.anchors[m.selected].Line
	switch {
	case line < m.vp.YOffset:
		m.vp.SetYOffset(line)
	case line >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(line - m.vp.Height + 1)
	}
}

func (m viewerModel) updateLinkSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "n", "down", "j":
		m.selected = (m.selected + 1) % len(m.anchors)
		m.showAnchor()
		m.repaint()
		return m, nil
	case "shift+tab", "p", "up", "k":
		m.selected = (m.selected - 1 + len(m.anchors)) % len(m.anchors)
		m.showAnchor()
		m.repaint()
		return m, nil
	case "enter":
		return m.followSelected()
	case "esc":
		m.mode = modeBrowsing
		m.repaint()
		return m, nil
	}
	return m, nil
}

func (m viewerModel) followSelected() (tea.Model, tea.Cmd) {
	target := m.anchors[m.selected].Anchor.Target
	rel, frag, err := followTarget(m.path, target)
	if err != nil {
		// External URLs and non-markdown files are reported, not opened.
		m.status = err.Error()
		return m, nil
	}
	if rel == "" {
		// Anchor within the active document.
		if line, ok := layout.FindAnchor(m.lines, frag); ok {
			m.vp.SetYOffset(m.clampOffset(line))
		} else {
			m.status = "anchor not found: " + frag
		}
		m.mode = modeBrowsing
		m.repaint()
		return m, nil
	}
	m.log.LinkFollowed(m.path, target)
	push := location{path: m.path, offset: m.vp.YOffset}
	return m.startLoad(loadRequest{path: rel, anchor: frag, push: &push})
}

func (m viewerModel) enterSearch() (tea.Model, tea.Cmd) {
	m.pendingLoad = ""
	m.mode = modeSearch
	m.input.Prompt = "/"
	m.input.Placeholder = "search"
	m.input.SetValue("")
	m.repaint()
	return m, m.input.Focus()
}

func (m viewerModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowsing
		m.input.Blur()
		m.repaint()
		return m, nil
	case "enter":
		return m.confirmSearch()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m viewerModel) confirmSearch() (tea.Model, tea.Cmd) {
	m.input.Blur()
	m.query = m.input.Value()
	m.matches = search.Find(m.lines, m.query)
	m.log.SearchRun(m.query, len(m.matches))
	if len(m.matches) == 0 {
		m.mode = modeBrowsing
		m.status = "no matches"
		m.repaint()
		return m, nil
	}
	m.mode = modeSearchResults
	m.current = search.First(m.matches, m.vp.YOffset)
	m.showMatch()
	m.repaint()
	return m, nil
}

// showMatch makes the current match visible, centering it when it is
// off screen and leaving the viewport alone when it is not.
func (m *viewerModel) showMatch() {
	line := m.matches[m.current].Line
	if line < m.vp.YOffset || line >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.clampOffset(line - m.vp.Height/2))
	}
}

func (m viewerModel) updateSearchResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "n":
		m.current = (m.current + 1) % len(m.matches)
		m.showMatch()
		m.repaint()
		return m, nil
	case "N", "p":
		m.current = (m.current - 1 + len(m.matches)) % len(m.matches)
		m.showMatch()
		m.repaint()
		return m, nil
	case "/":
		return m.enterSearch()
	case "enter", "esc":
		m.mode = modeBrowsing
		m.repaint()
		return m, nil
	}
	m.scrollKey(msg.String())
	return m, nil
}

// enterTree opens the file tree, recording where to come back to when a
// file is already open.
func (m viewerModel) enterTree() (tea.Model, tea.Cmd) {
	m.pendingLoad = ""
	if m.everOpen {
		m.back = append(m.back, location{path: m.path, offset: m.vp.YOffset})
	}
	m.mode = modeFileTree
	m.input.Prompt = "filter: "
	m.input.Placeholder = ""
	m.input.SetValue("")
	m.tree.SetFilter("")
	m.rebuildTreeRows()
	return m, tea.Batch(m.input.Focus(), m.listCmd())
}

func (m viewerModel) updateFileTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.input.Value() != "" {
			// First esc clears the filter, a second one leaves the tree.
			m.input.SetValue("")
			m.tree.SetFilter("")
			m.rebuildTreeRows()
			return m, nil
		}
		if !m.everOpen {
			return m, nil
		}
		m.dropTreeReturn()
		m.mode = modeBrowsing
		m.input.Blur()
		return m, nil
	case "enter":
		if m.treeTable.Cursor() < 0 || m.treeTable.Cursor() >= m.tree.Len() {
			return m, nil
		}
		entry := m.tree.At(m.treeTable.Cursor())
		m.input.Blur()
		if m.everOpen && entry.Path == m.path {
			// Reopening the active file is just a return to it.
			m.dropTreeReturn()
			m.mode = modeBrowsing
			return m, nil
		}
		return m.startLoad(loadRequest{path: entry.Path})
	case "up", "ctrl+p":
		m.treeTable.MoveUp(1)
		return m, nil
	case "down", "ctrl+n":
		m.treeTable.MoveDown(1)
		return m, nil
	case "pgup":
		m.treeTable.MoveUp(m.treeTable.Height())
		return m, nil
	case "pgdown":
		m.treeTable.MoveDown(m.treeTable.Height())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.tree.Filter() {
		m.tree.SetFilter(v)
		m.rebuildTreeRows()
	}
	return m, cmd
}

// dropTreeReturn removes the back-stack entry recorded when the tree
// was opened from a loaded file.
func (m *viewerModel) dropTreeReturn() {
	if n := len(m.back); n > 0 && m.back[n-1].path == m.path {
		m.back = m.back[:n-1]
	}
}

func (m *viewerModel) rebuildTreeRows() {
	rows := make([]table.Row, m.tree.Len())
	for i := 0; i < m.tree.Len(); i++ {
		e := m.tree.At(i)
		rows[i] = table.Row{e.Path, e.Title}
	}
	m.treeTable.SetRows(rows)
	if m.tree.Filter() == "" {
		if i := m.tree.Index(m.path); i >= 0 {
			m.treeTable.SetCursor(i)
			return
		}
	}
	m.treeTable.SetCursor(0)
}

func (m viewerModel) goBack() (tea.Model, tea.Cmd) {
	if len(m.back) == 0 {
		return m.enterTree()
	}
	top := m.back[len(m.back)-1]
	return m.startLoad(loadRequest{path: top.path, offset: top.offset, restore: true, pop: true})
}

func (m viewerModel) startLoad(req loadRequest) (viewerModel, tea.Cmd) {
	token := uuid.NewString()
	m.pendingLoad = token
	return m, m.loadCmd(token, req, m.contentWidth())
}

// loadCmd runs one load unit off the event loop: read, parse, lay out.
// The result carries the token so a superseded load can be discarded.
func (m viewerModel) loadCmd(token string, req loadRequest, width int) tea.Cmd {
	return func() tea.Msg {
		src, err := m.provider.Read(req.path)
		if err != nil {
			return docLoadedMsg{token: token, req: req, err: err}
		}
		doc := markdown.Parse(src)
		lines, err := layout.Layout(doc, width)
		if err != nil {
			return docLoadedMsg{token: token, req: req, err: err}
		}
		return docLoadedMsg{token: token, req: req, doc: doc, lines: lines, width: width}
	}
}

func (m viewerModel) listCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.provider.List()
		return treeLoadedMsg{entries: entries, err: err}
	}
}

// waitForEvent blocks on the watcher stream and is re-armed after every
// delivery.
func (m viewerModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.watcher.Events()
		if !ok {
			return nil
		}
		return fileEventMsg(ev)
	}
}

func (m viewerModel) applyLoad(msg docLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.pendingLoad {
		// A later request superseded this one.
		return m, nil
	}
	m.pendingLoad = ""

	if msg.err != nil {
		// The previous view stays intact on a failed load.
		m.status = msg.err.Error()
		m.statusErr = true
		m.log.FileError(msg.req.path, msg.err)
		return m, nil
	}

	prevOffset := m.vp.YOffset

	m.doc = msg.doc
	m.lines = msg.lines
	m.laidWidth = msg.width
	m.path = msg.req.path
	m.anchors = layout.CollectAnchors(m.lines)
	m.everOpen = true

	if msg.req.push != nil {
		m.back = append(m.back, *msg.req.push)
	}
	if msg.req.pop && len(m.back) > 0 {
		m.back = m.back[:len(m.back)-1]
	}

	if msg.width != m.contentWidth() {
		// The terminal was resized while the load was in flight.
		if lines, err := layout.Layout(m.doc, m.contentWidth()); err == nil {
			m.lines = lines
			m.laidWidth = m.contentWidth()
			m.anchors = layout.CollectAnchors(m.lines)
		}
	}

	if msg.req.reload {
		// Live reload keeps the user's mode and position.
		if m.mode == modeSearchResults {
			m.rerunSearch()
		}
		if m.mode == modeLinkSelect {
			if len(m.anchors) == 0 {
				m.mode = modeBrowsing
			} else if m.selected >= len(m.anchors) {
				m.selected = 0
			}
		}
		m.repaint()
		m.vp.SetYOffset(m.clampOffset(prevOffset))
		m.log.FileReloaded(m.path, len(m.lines))
		return m, nil
	}

	m.mode = modeBrowsing
	m.selected = 0
	m.matches = nil
	m.current = 0
	m.repaint()

	switch {
	case msg.req.restore:
		m.vp.SetYOffset(m.clampOffset(msg.req.offset))
	case msg.req.anchor != "":
		if line, ok := layout.FindAnchor(m.lines, msg.req.anchor); ok {
			m.vp.SetYOffset(m.clampOffset(line))
		} else {
			// Dangling anchor: land at the top rather than failing.
			m.status = "anchor not found: " + msg.req.anchor
			m.vp.GotoTop()
		}
	default:
		m.vp.GotoTop()
	}
	m.log.FileOpened(m.path, len(m.doc.Blocks), len(m.lines))
	if len(m.doc.Notes) > 0 {
		m.status = m.doc.Notes[0]
		for _, note := range m.doc.Notes {
			m.log.ParseNote(m.path, note)
		}
	}

	if m.watcher != nil {
		if err := m.watcher.Watch(m.activeAbs()); err != nil {
			m.log.WatchError(err)
		}
	}
	return m, nil
}

func (m viewerModel) applyTree(msg treeLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = msg.err.Error()
		m.statusErr = true
		m.log.FileError(m.provider.Root(), msg.err)
		return m, nil
	}
	m.tree = files.NewTree(msg.entries)
	m.tree.SetFilter(m.input.Value())
	m.rebuildTreeRows()
	m.log.TreeBuilt(m.provider.Root(), len(msg.entries))
	return m, nil
}

func (m viewerModel) applyFileEvent(msg fileEventMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.WatchError(msg.Err)
		return m, m.waitForEvent()
	}
	m.log.WatchEvent(msg.Path)
	if m.everOpen && m.pendingLoad == "" && filepath.Clean(msg.Path) == m.activeAbs() {
		next, cmd := m.startLoad(loadRequest{path: m.path, reload: true})
		return next, tea.Batch(cmd, m.waitForEvent())
	}
	return m, m.waitForEvent()
}

func (m viewerModel) activeAbs() string {
	return filepath.Join(m.provider.Root(), filepath.FromSlash(m.path))
}
