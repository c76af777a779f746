package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateKey(msg tea.KeyMsg) Model {
	if !m.core.Focused() {
		return m
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		s := strings.ReplaceAll(string(msg.Runes), "\r\n", "\n")
		m.report("paste", m.core.Typing(s))
		return m
	}

	if name, ok := m.core.LookupKey(msg.String()); ok {
		m.report(name, m.core.ExecCommand(name))
		return m
	}
	if name, ok := m.cfg.KeyMap.command(msg); ok {
		m.report(name, m.core.ExecCommand(name))
		return m
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
		m.report("input", m.core.Typing(string(msg.Runes)))
	} else if msg.Type == tea.KeySpace {
		m.report("input", m.core.Typing(" "))
	}
	return m
}

func (m Model) report(what string, err error) {
	if err != nil {
		log.Debugf("%s: %s", what, err)
	}
}
