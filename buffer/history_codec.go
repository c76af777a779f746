package buffer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// historyFormat is bumped whenever the encoded layout of History changes.
const historyFormat = 1

type historyEnvelope struct {
	Format  int
	History History
}

// WriteHistory encodes h to w.
func WriteHistory(w io.Writer, h History) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(historyEnvelope{Format: historyFormat, History: h})
}

// ReadHistory decodes a history written by WriteHistory.
func ReadHistory(r io.Reader) (History, error) {
	var env historyEnvelope
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return History{}, err
	}
	if env.Format != historyFormat {
		return History{}, fmt.Errorf("%w: history format %d", ErrInvalidArgument, env.Format)
	}
	return env.History, nil
}

func EncodeHistory(h History) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeHistory(data []byte) (History, error) {
	return ReadHistory(bytes.NewReader(data))
}
