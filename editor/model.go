package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/lattice/buffer"
)

// Config configures the editor Model.
type Config struct {
	Style  Style
	KeyMap KeyMap
}

func DefaultConfig() Config {
	return Config{Style: DefaultStyle(), KeyMap: DefaultKeyMap()}
}

// Model is a Bubble Tea component that renders and interacts with a Core.
// Units sent by a ProgramExecutor run inside Update.
type Model struct {
	cfg  Config
	core *Core

	viewport viewport.Model
	layout   layout

	lastVersion uint64
	lastCursor  buffer.Pos
	lastEvents  uint64
}

func New(core *Core, cfg Config) Model {
	m := Model{
		cfg:      cfg,
		core:     core,
		viewport: viewport.New(0, 0),
	}
	m.syncFromCore()
	m.rebuildContent()
	return m
}

func (m Model) Core() *Core { return m.core }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	m.core.Focus()
	m.syncFromCore()
	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Blur() Model {
	m.core.Blur()
	m.syncFromCore()
	m.rebuildContent()
	return m
}

func (m Model) Focused() bool { return m.core.Focused() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case unitMsg:
		msg.fn()
		close(msg.done)
	case tea.KeyMsg:
		m = m.updateKey(msg)
	case tea.MouseMsg:
		m, cmd = m.updateMouse(msg)
		// Manual scrolling must not snap back to the cursor.
		if m.syncFromCore() {
			m.rebuildContent()
		}
		return m, cmd
	}
	if m.syncFromCore() {
		m.rebuildContent()
		m.followCursor()
	}
	return m, cmd
}

func (m Model) View() string { return m.viewport.View() }

// syncFromCore reports whether anything visible changed since the last
// call.
func (m *Model) syncFromCore() bool {
	doc := m.core.Doc()
	ver, cur, evs := doc.Version(), doc.Cursor(), m.core.Emitted()
	if ver == m.lastVersion && cur == m.lastCursor && evs == m.lastEvents {
		return false
	}
	m.lastVersion, m.lastCursor, m.lastEvents = ver, cur, evs
	return true
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	row, ok := m.layout.screenRowOf(m.core.Doc().Cursor().Row)
	if !ok {
		return
	}

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
