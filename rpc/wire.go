// Package rpc carries editor operations across a process boundary.
//
// Both sides exchange msgpack-encoded Messages over one stream. A request
// names a facade operation; the server queues it on the editor in the
// order requests arrive and answers with a response carrying the same id.
// Responses may arrive out of order. Events a client subscribed to are
// pushed as event messages.
package rpc

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/proxy"
)

const (
	msgRequest uint8 = iota + 1
	msgResponse
	msgEvent
)

// Message is the single frame type of the protocol.
type Message struct {
	Type   uint8              `msgpack:"t"`
	ID     uint64             `msgpack:"id,omitempty"`
	Method string             `msgpack:"m,omitempty"`
	Params msgpack.RawMessage `msgpack:"p,omitempty"`
	Result msgpack.RawMessage `msgpack:"r,omitempty"`
	Error  *RemoteError       `msgpack:"e,omitempty"`
}

// RemoteError is a failed request as seen by the client. Kind carries
// the proxy.Kind name, so errors.Is matches the proxy sentinels.
type RemoteError struct {
	Kind    string `msgpack:"kind"`
	Message string `msgpack:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s error: %s", e.Kind, e.Message)
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case proxy.ErrRange:
		return e.Kind == proxy.KindRange.String()
	case proxy.ErrDetachedEditor:
		return e.Kind == proxy.KindDetachedEditor.String()
	case proxy.ErrHistoryMismatch:
		return e.Kind == proxy.KindHistoryMismatch.String()
	}
	return false
}

func remoteError(err error) *RemoteError {
	var re *RemoteError
	if errors.As(err, &re) {
		return re
	}
	return &RemoteError{Kind: proxy.KindOf(err).String(), Message: err.Error()}
}

// Position is a document position on the wire.
type Position struct {
	Line uint32 `msgpack:"line"`
	Ch   uint32 `msgpack:"ch"`
}

func (p Position) pos() (buffer.Pos, error) {
	row, err := safecast.Conv[int](p.Line)
	if err != nil {
		return buffer.Pos{}, err
	}
	col, err := safecast.Conv[int](p.Ch)
	if err != nil {
		return buffer.Pos{}, err
	}
	return buffer.Pos{Row: row, GraphemeCol: col}, nil
}

func position(p buffer.Pos) (Position, error) {
	line, err := safecast.Conv[uint32](p.Row)
	if err != nil {
		return Position{}, err
	}
	ch, err := safecast.Conv[uint32](p.GraphemeCol)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: line, Ch: ch}, nil
}

func lineNumber(n uint32) (int, error) {
	return safecast.Conv[int](n)
}

// conn serializes writes; reads happen on one goroutine.
type conn struct {
	rwc io.ReadWriteCloser
	dec *msgpack.Decoder
	wmu sync.Mutex
	enc *msgpack.Encoder
}

func newConn(rwc io.ReadWriteCloser) *conn {
	return &conn{
		rwc: rwc,
		dec: msgpack.NewDecoder(rwc),
		enc: msgpack.NewEncoder(rwc),
	}
}

func (c *conn) read() (Message, error) {
	var m Message
	err := c.dec.Decode(&m)
	return m, err
}

func (c *conn) write(m Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.enc.Encode(&m)
}

func (c *conn) close() error { return c.rwc.Close() }

func encode(v any) (msgpack.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return msgpack.Marshal(v)
}

func decode[T any](raw msgpack.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := msgpack.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", buffer.ErrInvalidArgument, err)
	}
	return v, nil
}
