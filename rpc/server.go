package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/lines"
	"github.com/iw2rmb/lattice/proxy"
)

var log = commonlog.GetLogger("lattice.rpc")

// waiter blocks until a queued operation finished.
type waiter func(ctx context.Context) (any, error)

func wait[T any](f *proxy.Future[T]) waiter {
	return func(ctx context.Context) (any, error) {
		return f.Await(ctx)
	}
}

// handler queues the operation a request names. It runs on the read loop,
// so operations are queued in arrival order.
type handler func(s *Server, params msgpack.RawMessage) (waiter, error)

// Server answers requests against one editor.
type Server struct {
	ed   *facade.Editor
	conn *conn

	// subs holds registrations as queued, so off and repeated on
	// requests see them before they run.
	smu  sync.Mutex
	subs map[editor.EventKind]*proxy.Future[proxy.Subscription]

	wg sync.WaitGroup
}

func NewServer(ed *facade.Editor, rwc io.ReadWriteCloser) *Server {
	return &Server{
		ed:   ed,
		conn: newConn(rwc),
		subs: make(map[editor.EventKind]*proxy.Future[proxy.Subscription]),
	}
}

// Serve reads requests until the stream ends or ctx is done. It closes
// the stream and waits for outstanding responses before returning.
func (s *Server) Serve(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.close()
		case <-stop:
		}
	}()

	defer func() {
		cancel()
		s.wg.Wait()
		s.unsubscribeAll()
		_ = s.conn.close()
	}()

	for {
		msg, err := s.conn.read()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rpc: read: %w", err)
		}
		if msg.Type != msgRequest {
			log.Debugf("ignoring message of type %d", msg.Type)
			continue
		}
		s.handle(ctx, msg)
	}
}

func (s *Server) handle(ctx context.Context, msg Message) {
	h, ok := handlers[msg.Method]
	if !ok {
		s.reply(msg.ID, nil, &RemoteError{
			Kind:    proxy.KindInvalidArgument.String(),
			Message: fmt.Sprintf("unknown method %q", msg.Method),
		})
		return
	}
	w, err := h(s, msg.Params)
	if err != nil {
		s.reply(msg.ID, nil, &RemoteError{Kind: proxy.KindInvalidArgument.String(), Message: err.Error()})
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		v, err := w(ctx)
		if err != nil {
			s.reply(msg.ID, nil, remoteError(err))
			return
		}
		s.reply(msg.ID, v, nil)
	}()
}

func (s *Server) reply(id uint64, v any, rerr *RemoteError) {
	out := Message{Type: msgResponse, ID: id, Error: rerr}
	if rerr == nil {
		raw, err := encode(v)
		if err != nil {
			out.Error = &RemoteError{Kind: proxy.KindInternal.String(), Message: err.Error()}
		}
		out.Result = raw
	}
	if err := s.conn.write(out); err != nil {
		log.Debugf("reply %d: %s", id, err)
	}
}

func (s *Server) push(ev editor.Event) {
	raw, err := encode(eventPayload(ev))
	if err != nil {
		log.Errorf("encode %s: %s", ev.Kind(), err)
		return
	}
	if err := s.conn.write(Message{Type: msgEvent, Method: ev.Kind().String(), Params: raw}); err != nil {
		log.Debugf("push %s: %s", ev.Kind(), err)
	}
}

func (s *Server) unsubscribeAll() {
	s.smu.Lock()
	subs := s.subs
	s.subs = make(map[editor.EventKind]*proxy.Future[proxy.Subscription])
	s.smu.Unlock()
	for _, reg := range subs {
		s.ed.OffPending(reg)
	}
}

// EventParams is the payload of an event message.
type EventParams struct {
	Origin string `msgpack:"origin,omitempty"`
	Line   *int   `msgpack:"line,omitempty"`
	Gutter string `msgpack:"gutter,omitempty"`
	Name   string `msgpack:"name,omitempty"`
}

func eventPayload(ev editor.Event) EventParams {
	switch ev := ev.(type) {
	case editor.ChangeEvent:
		return EventParams{Origin: ev.Change.Origin}
	case editor.GutterClickEvent:
		n := ev.Line
		return EventParams{Line: &n, Gutter: ev.Gutter}
	case editor.OptionChangeEvent:
		return EventParams{Name: ev.Name}
	case editor.OtherEvent:
		return EventParams{Name: ev.Name}
	}
	return EventParams{}
}

type (
	ValueParams struct {
		Sep string `msgpack:"sep"`
	}
	TextParams struct {
		Text string `msgpack:"text"`
	}
	LineParams struct {
		Line uint32 `msgpack:"line"`
	}
	ReplaceParams struct {
		Text   string    `msgpack:"text"`
		From   Position  `msgpack:"from"`
		To     *Position `msgpack:"to"`
		Origin string    `msgpack:"origin"`
	}
	CursorParams struct {
		Pos Position `msgpack:"pos"`
	}
	AnnotateParams struct {
		Line    uint32 `msgpack:"line"`
		Message string `msgpack:"message"`
	}
	WidgetParams struct {
		Widget uint64 `msgpack:"widget"`
	}
	BreakpointParams struct {
		Line    uint32 `msgpack:"line"`
		Enabled *bool  `msgpack:"enabled"`
	}
	EventNameParams struct {
		Event string `msgpack:"event"`
	}
	AnnotationResult struct {
		ID     uint64 `msgpack:"id"`
		Widget uint64 `msgpack:"widget"`
		Line   int    `msgpack:"line"`
	}
)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"lineCount": func(s *Server, _ msgpack.RawMessage) (waiter, error) {
			return wait(s.ed.LineCount()), nil
		},
		"getValue": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[ValueParams](raw)
			if err != nil {
				return nil, err
			}
			return wait(s.ed.GetValue(p.Sep)), nil
		},
		"setValue": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[TextParams](raw)
			if err != nil {
				return nil, err
			}
			return wait(s.ed.SetValue(p.Text)), nil
		},
		"getLine": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[LineParams](raw)
			if err != nil {
				return nil, err
			}
			n, err := lineNumber(p.Line)
			if err != nil {
				return nil, err
			}
			return wait(s.ed.GetLine(n)), nil
		},
		"replaceRange": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[ReplaceParams](raw)
			if err != nil {
				return nil, err
			}
			from, err := p.From.pos()
			if err != nil {
				return nil, err
			}
			to := from
			if p.To != nil {
				if to, err = p.To.pos(); err != nil {
					return nil, err
				}
			}
			return wait(s.ed.ReplaceRange(p.Text, from, to, p.Origin)), nil
		},
		"getCursor": func(s *Server, _ msgpack.RawMessage) (waiter, error) {
			f := proxy.Map(s.ed.GetCursor(buffer.CursorHead), position)
			return wait(f), nil
		},
		"setCursor": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[CursorParams](raw)
			if err != nil {
				return nil, err
			}
			pos, err := p.Pos.pos()
			if err != nil {
				return nil, err
			}
			return wait(s.ed.SetCursor(pos)), nil
		},
		"undo": func(s *Server, _ msgpack.RawMessage) (waiter, error) {
			return wait(s.ed.Undo()), nil
		},
		"redo": func(s *Server, _ msgpack.RawMessage) (waiter, error) {
			return wait(s.ed.Redo()), nil
		},
		"addError":      annotateHandler((*facade.Editor).AddError),
		"addWarning":    annotateHandler((*facade.Editor).AddWarning),
		"addInfo":       annotateHandler((*facade.Editor).AddInfo),
		"removeError":   removeHandler((*facade.Editor).RemoveError),
		"removeWarning": removeHandler((*facade.Editor).RemoveWarning),
		"removeInfo":    removeHandler((*facade.Editor).RemoveInfo),
		"toggleBreakpoint": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[BreakpointParams](raw)
			if err != nil {
				return nil, err
			}
			n, err := lineNumber(p.Line)
			if err != nil {
				return nil, err
			}
			return wait(s.ed.ToggleBreakpoint(lines.At(n), p.Enabled)), nil
		},
		"getBreakpoints": func(s *Server, _ msgpack.RawMessage) (waiter, error) {
			return wait(s.ed.GetBreakpoints()), nil
		},
		"on": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[EventNameParams](raw)
			if err != nil {
				return nil, err
			}
			kind, ok := editor.ParseEventKind(p.Event)
			if !ok {
				return nil, fmt.Errorf("%w: unknown event %q", buffer.ErrInvalidArgument, p.Event)
			}
			s.smu.Lock()
			reg, dup := s.subs[kind]
			if !dup {
				reg = s.ed.On(kind, s.push)
				s.subs[kind] = reg
			}
			s.smu.Unlock()
			return func(ctx context.Context) (any, error) {
				if _, err := reg.Await(ctx); err != nil {
					if ctx.Err() == nil {
						s.smu.Lock()
						if s.subs[kind] == reg {
							delete(s.subs, kind)
						}
						s.smu.Unlock()
					}
					return nil, err
				}
				return nil, nil
			}, nil
		},
		"off": func(s *Server, raw msgpack.RawMessage) (waiter, error) {
			p, err := decode[EventNameParams](raw)
			if err != nil {
				return nil, err
			}
			kind, ok := editor.ParseEventKind(p.Event)
			if !ok {
				return nil, fmt.Errorf("%w: unknown event %q", buffer.ErrInvalidArgument, p.Event)
			}
			s.smu.Lock()
			reg, found := s.subs[kind]
			delete(s.subs, kind)
			s.smu.Unlock()
			if !found {
				return func(context.Context) (any, error) { return nil, nil }, nil
			}
			return wait(s.ed.OffPending(reg)), nil
		},
	}
}

func annotateHandler(add func(*facade.Editor, lines.Ref, string) *proxy.Future[facade.Annotation]) handler {
	return func(s *Server, raw msgpack.RawMessage) (waiter, error) {
		p, err := decode[AnnotateParams](raw)
		if err != nil {
			return nil, err
		}
		n, err := lineNumber(p.Line)
		if err != nil {
			return nil, err
		}
		f := proxy.Map(add(s.ed, lines.At(n), p.Message), func(a facade.Annotation) (AnnotationResult, error) {
			return AnnotationResult{ID: a.ID, Widget: a.WidgetID, Line: a.Line}, nil
		})
		return wait(f), nil
	}
}

func removeHandler(remove func(*facade.Editor, facade.Target) *proxy.Future[struct{}]) handler {
	return func(s *Server, raw msgpack.RawMessage) (waiter, error) {
		p, err := decode[WidgetParams](raw)
		if err != nil {
			return nil, err
		}
		return wait(remove(s.ed, facade.Widget(p.Widget))), nil
	}
}
