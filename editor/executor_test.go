package editor

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loopSender feeds messages to a model on one goroutine, like a running
// program does.
type loopSender struct {
	mu sync.Mutex
	m  Model
}

func (s *loopSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m, _ = s.m.Update(msg)
}

type dropSender struct{}

func (dropSender) Send(tea.Msg) {}

func TestDirectExecutor(t *testing.T) {
	ran := 0
	if err := (DirectExecutor{}).Execute(func() { ran++ }); err != nil || ran != 1 {
		t.Fatalf("err=%v ran=%d", err, ran)
	}
}

func TestProgramExecutor_RunsInsideUpdate(t *testing.T) {
	s := &loopSender{m: plainModel("a", Options{})}
	doc := s.m.Core().Doc()
	ex := NewProgramExecutor(s)
	defer ex.Stop()

	for i := 0; i < 10; i++ {
		if err := ex.Execute(func() { doc.InsertText("x") }); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	if got := doc.Text(); got != "xxxxxxxxxxa" {
		t.Fatalf("text=%q", got)
	}
}

func TestProgramExecutor_Stop(t *testing.T) {
	ex := NewProgramExecutor(dropSender{})
	errc := make(chan error, 1)
	go func() { errc <- ex.Execute(func() {}) }()

	time.Sleep(10 * time.Millisecond)
	ex.Stop()
	ex.Stop()
	select {
	case err := <-errc:
		if !errors.Is(err, ErrExecutorStopped) {
			t.Fatalf("err=%v, want ErrExecutorStopped", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Execute did not return after Stop")
	}
	if err := ex.Execute(func() { t.Fatalf("unit ran after Stop") }); !errors.Is(err, ErrExecutorStopped) {
		t.Fatalf("err=%v, want ErrExecutorStopped", err)
	}
}
