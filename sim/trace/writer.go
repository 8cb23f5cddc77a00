package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

// JSONLinesWriter streams tick records as one JSON object per line.
type JSONLinesWriter struct {
	lock   sync.Mutex
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	closed bool
}

// NewJSONLinesWriter wraps w. If w is also an io.Closer it is closed by Close.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	t := &JSONLinesWriter{w: bufio.NewWriter(w)}
	t.enc = json.NewEncoder(t.w)
	t.enc.SetEscapeHTML(false)
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// CreateJSONLinesFile creates the trace file at path, or dairy_trace_<xid>.jsonl
// when path is empty. The file is flushed and closed at process exit if the
// caller has not closed it already.
func CreateJSONLinesFile(path string) (*JSONLinesWriter, string, error) {
	if path == "" {
		path = "dairy_trace_" + xid.New().String() + ".jsonl"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, "", fmt.Errorf("trace file %s already exists", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("creating trace file: %w", err)
	}
	t := NewJSONLinesWriter(f)
	atexit.Register(func() {
		if err := t.Close(); err != nil {
			logrus.Errorf("closing trace file %s: %v", path, err)
		}
	})
	return t, path, nil
}

// Write appends one record.
func (t *JSONLinesWriter) Write(record TickRecord) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.closed {
		return fmt.Errorf("trace writer closed")
	}
	if err := t.enc.Encode(record); err != nil {
		return fmt.Errorf("encoding tick %d: %w", record.Tick, err)
	}
	return nil
}

// Close flushes buffered records and closes the underlying writer. Calling
// Close more than once is a no-op.
func (t *JSONLinesWriter) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
