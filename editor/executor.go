package editor

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Executor runs units of work on the goroutine that owns an editor.
// Execute returns after fn ran, or with an error when fn will never run.
type Executor interface {
	Execute(fn func()) error
}

// DirectExecutor runs units on the calling goroutine. It suits headless
// editors whose only user is a single proxy.
type DirectExecutor struct{}

func (DirectExecutor) Execute(fn func()) error {
	fn()
	return nil
}

// Sender is the part of *tea.Program a ProgramExecutor needs.
type Sender interface {
	Send(msg tea.Msg)
}

// unitMsg carries a unit into Model.Update.
type unitMsg struct {
	fn   func()
	done chan struct{}
}

// ProgramExecutor runs units inside the Update loop of a Bubble Tea
// program whose model is (or embeds) a Model, so units never race with
// rendering or input handling.
type ProgramExecutor struct {
	s    Sender
	stop chan struct{}
	once sync.Once
}

func NewProgramExecutor(s Sender) *ProgramExecutor {
	return &ProgramExecutor{s: s, stop: make(chan struct{})}
}

func (e *ProgramExecutor) Execute(fn func()) error {
	select {
	case <-e.stop:
		return ErrExecutorStopped
	default:
	}
	msg := unitMsg{fn: fn, done: make(chan struct{})}
	go e.s.Send(msg)
	select {
	case <-msg.done:
		return nil
	case <-e.stop:
		return ErrExecutorStopped
	}
}

// Stop fails pending and later units. Call it once the program exited;
// a proxy closed afterwards destroys its editor without the program.
func (e *ProgramExecutor) Stop() {
	e.once.Do(func() { close(e.stop) })
}
