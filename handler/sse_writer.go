package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/tieubaoca/ayuroot-be/types"
)

// ErrStreamClosed is returned by writes after the terminal event.
var ErrStreamClosed = errors.New("stream closed")

// SSEWriter frames stream events as `data: <json>\n\n` and flushes each one.
// After a done or error event the stream is closed and further writes fail.
type SSEWriter struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("ResponseWriter does not support http.Flusher")
	}
	return &SSEWriter{
		writer:  w,
		flusher: flusher,
	}, nil
}

// SetSSEHeaders must run before the first write.
func SetSSEHeaders(w http.ResponseWriter, allowOrigin string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
}

func (w *SSEWriter) WriteEvent(event types.StreamEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrStreamClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if event.Terminal() {
		w.closed = true
	}
	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", data); err != nil {
		w.closed = true
		return fmt.Errorf("write event: %w", err)
	}

	w.flusher.Flush()
	return nil
}

func (w *SSEWriter) WriteChunk(chunk string) error {
	return w.WriteEvent(types.ChunkEvent(chunk))
}

func (w *SSEWriter) WriteDone() error {
	return w.WriteEvent(types.DoneEvent())
}

func (w *SSEWriter) WriteError(message string) error {
	return w.WriteEvent(types.ErrorEvent(message))
}

func (w *SSEWriter) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
