package host

import (
	"bytes"
	"io"
	"maps"
	"sync"
)

// Panel holds the run panel's output streams, one per named tab.
type Panel struct {
	mu      sync.Mutex
	streams []*Stream
	// sink, when set, receives every write as well.
	sink io.Writer
}

// NewPanel returns an empty panel. sink may be nil.
func NewPanel(sink io.Writer) *Panel {
	return &Panel{sink: sink}
}

// Debugger receives the debug controls of a stream.
type Debugger interface {
	// Run continues until the next breakpoint or the end.
	Run()
	// Step advances one line and pauses.
	Step()
	Stop()
}

// Stream is one output area of the run panel. Besides text it carries
// the variables of a paused run and, while one is attached, the debugger
// its controls drive.
type Stream struct {
	name string
	p    *Panel

	mu   sync.Mutex
	buf  bytes.Buffer
	vars map[string]string
	dbg  Debugger
}

func (s *Stream) Name() string { return s.name }

func (s *Stream) Write(b []byte) (int, error) {
	s.mu.Lock()
	s.buf.Write(b)
	s.mu.Unlock()
	if s.p.sink != nil {
		s.p.mu.Lock()
		defer s.p.mu.Unlock()
		return s.p.sink.Write(b)
	}
	return len(b), nil
}

// Output returns everything written so far.
func (s *Stream) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// SetVariables replaces the variables shown with the stream.
func (s *Stream) SetVariables(vars map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars = maps.Clone(vars)
}

func (s *Stream) Variables() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.vars)
}

// SetDebugger attaches d to the stream's controls. A nil d detaches.
func (s *Stream) SetDebugger(d Debugger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dbg = d
}

func (s *Stream) Debugger() (Debugger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dbg, s.dbg != nil
}

// Add opens a stream. Names need not be unique; ByName returns the first.
func (p *Panel) Add(name string) *Stream {
	s := &Stream{name: name, p: p}
	p.mu.Lock()
	p.streams = append(p.streams, s)
	p.mu.Unlock()
	return s
}

// Remove drops s from the panel. Removing an unknown stream is a no-op.
func (p *Panel) Remove(s *Stream) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, cur := range p.streams {
		if cur == s {
			p.streams = append(p.streams[:i], p.streams[i+1:]...)
			return
		}
	}
}

func (p *Panel) ByName(name string) (*Stream, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.streams {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Streams returns the open streams in the order they were added.
func (p *Panel) Streams() []*Stream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Stream(nil), p.streams...)
}
