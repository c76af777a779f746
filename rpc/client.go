package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrClosed is returned by calls on a client whose stream ended.
var ErrClosed = errors.New("rpc: connection closed")

// EventHandler receives pushed events on the client's read goroutine.
type EventHandler func(name string, params EventParams)

// Client sends requests to a Server. It is safe for concurrent use;
// requests are sent, and therefore queued on the editor, in the order
// Call is entered.
type Client struct {
	conn    *conn
	onEvent EventHandler

	// send keeps ids and wire order aligned.
	send sync.Mutex
	seq  uint64

	mu      sync.Mutex
	pending map[uint64]chan Message
	err     error

	done chan struct{}
}

// NewClient starts reading from rwc. onEvent may be nil.
func NewClient(rwc io.ReadWriteCloser, onEvent EventHandler) *Client {
	c := &Client{
		conn:    newConn(rwc),
		onEvent: onEvent,
		pending: make(map[uint64]chan Message),
		done:    make(chan struct{}),
	}
	go c.read()
	return c
}

func (c *Client) read() {
	defer close(c.done)
	for {
		msg, err := c.conn.read()
		if err != nil {
			c.fail(err)
			return
		}
		switch msg.Type {
		case msgResponse:
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
		case msgEvent:
			if c.onEvent == nil {
				continue
			}
			p, err := decode[EventParams](msg.Params)
			if err != nil {
				log.Debugf("event %s: %s", msg.Method, err)
				continue
			}
			c.onEvent(msg.Method, p)
		}
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		err = ErrClosed
	} else {
		err = fmt.Errorf("%w: %v", ErrClosed, err)
	}
	c.err = err
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Call sends method with params and decodes the result into result, which
// may be nil. A failed remote operation returns a *RemoteError.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	raw, err := encode(params)
	if err != nil {
		return err
	}
	ch := make(chan Message, 1)

	c.send.Lock()
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		c.send.Unlock()
		return err
	}
	c.seq++
	id := c.seq
	c.pending[id] = ch
	c.mu.Unlock()
	err = c.conn.write(Message{Type: msgRequest, ID: id, Method: method, Params: raw})
	c.send.Unlock()
	if err != nil {
		c.forget(id)
		return err
	}

	select {
	case msg, ok := <-ch:
		if !ok {
			return c.closedErr()
		}
		if msg.Error != nil {
			return msg.Error
		}
		if result == nil || len(msg.Result) == 0 {
			return nil
		}
		return msgpack.Unmarshal(msg.Result, result)
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	}
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrClosed
}

// Close ends the stream and waits for the read goroutine.
func (c *Client) Close() error {
	err := c.conn.close()
	<-c.done
	return err
}
