package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/host"
	"github.com/iw2rmb/lattice/lines"
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Edit a file in the terminal",
	Long: `Edit a file. ctrl+s saves, ctrl+l lints, clicking the gutter toggles a breakpoint,
f5 starts or continues debugging, f10 steps, shift+f5 stops, ctrl+q quits`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// statusMsg replaces the status line.
type statusMsg string

// session is filled in once the program exists, since the proxy sends
// its units to the program.
type session struct {
	ed   *facade.Editor
	host *host.Host

	mu    sync.Mutex
	debug *host.Stream
}

type editModel struct {
	path   string
	s      *session
	editor editor.Model
	status string
	width  int
}

func (m editModel) Init() tea.Cmd { return nil }

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.editor = m.editor.SetSize(msg.Width, max(msg.Height-1, 0))
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+q", "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			return m, m.saveCmd()
		case "ctrl+l":
			return m, m.lintCmd()
		case "f5":
			return m, m.debugCmd(host.Debugger.Run, true)
		case "f10":
			return m, m.debugCmd(host.Debugger.Step, true)
		case "shift+f5":
			return m, m.debugCmd(host.Debugger.Stop, false)
		}
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m editModel) View() string {
	status := m.status
	if status == "" {
		status = m.path
	}
	return m.editor.View() + "\n" + statusStyle.MaxWidth(max(m.width, 1)).Render(status)
}

// Commands run off the Update goroutine; units they queue are delivered
// back through the program.
func (m editModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		if err := save(context.Background(), m.s.ed, m.path); err != nil {
			return statusMsg("save: " + err.Error())
		}
		return statusMsg("saved " + m.path)
	}
}

func (m editModel) lintCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.s.host.Call(context.Background(), "lint.check", nil)
		if err != nil {
			return statusMsg("lint: " + err.Error())
		}
		m.s.host.Panel().Remove(out)
		return statusMsg(lastLine(out.Output()))
	}
}

// debugCmd applies control to the running debug session, or starts one
// when there is none and start is set.
func (m editModel) debugCmd(control func(host.Debugger), start bool) tea.Cmd {
	return func() tea.Msg {
		s := m.s
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.debug != nil {
			if d, ok := s.debug.Debugger(); ok {
				control(d)
				return statusMsg(lastLine(s.debug.Output()))
			}
			s.host.Panel().Remove(s.debug)
			s.debug = nil
		}
		if !start {
			return statusMsg("not debugging")
		}
		out, err := s.host.Call(context.Background(), "breakpoints.debug", nil)
		if err != nil {
			return statusMsg("debug: " + err.Error())
		}
		s.debug = out
		return statusMsg(lastLine(out.Output()))
	}
}

func lastLine(s string) string {
	ls := strings.Split(strings.TrimSpace(s), "\n")
	return ls[len(ls)-1]
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := args[0]
	core, err := newCore(appConfig, path)
	if err != nil {
		return err
	}

	s := &session{}
	m := editModel{
		path:   path,
		s:      s,
		editor: editor.New(core, editor.DefaultConfig()).Focus(),
	}
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	exec := editor.NewProgramExecutor(prog)

	s.ed = facade.New(core, appConfig.ProxyOptions(exec))
	if s.host, err = newHost(appConfig, s.ed, nil); err != nil {
		exec.Stop()
		s.ed.Close()
		return err
	}
	s.ed.On(editor.EventGutterClick, func(ev editor.Event) {
		click, ok := ev.(editor.GutterClickEvent)
		if !ok {
			return
		}
		s.ed.ToggleBreakpoint(lines.Of(click.Handle), nil)
		prog.Send(statusMsg(fmt.Sprintf("toggled breakpoint on line %d", click.Line+1)))
	})

	_, runErr := prog.Run()
	// The program no longer runs units; with the executor stopped, Close
	// destroys the editor directly.
	exec.Stop()
	s.ed.Close()
	return runErr
}
