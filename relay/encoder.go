// Package relay paces an already complete text out to a client as a series
// of fixed-size chunks.
package relay

import (
	"context"
	"time"
)

const (
	DefaultChunkSize  = 30
	DefaultChunkDelay = 50 * time.Millisecond
)

// EmitFunc writes one chunk to the client. A returned error stops the relay.
type EmitFunc func(chunk string) error

type Encoder struct {
	chunkSize int
	delay     time.Duration
}

// NewEncoder returns an Encoder splitting on chunkSize characters and
// sleeping delay after each emitted chunk. Non-positive sizes fall back to
// DefaultChunkSize.
func NewEncoder(chunkSize int, delay time.Duration) *Encoder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if delay < 0 {
		delay = 0
	}
	return &Encoder{
		chunkSize: chunkSize,
		delay:     delay,
	}
}

func (e *Encoder) ChunkSize() int {
	return e.chunkSize
}

// Split partitions text into contiguous slices of ChunkSize characters. The
// last slice holds the remainder. Characters are runes, so multi-byte
// sequences are never cut.
func (e *Encoder) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+e.chunkSize-1)/e.chunkSize)
	for i := 0; i < len(runes); i += e.chunkSize {
		end := i + e.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Relay emits the chunks of text in order, waiting the configured delay
// after each one. It returns the first emit error, or ctx.Err() when the
// context is cancelled while waiting. The caller decides what a failure
// means; the relay itself never writes anything but chunks.
func (e *Encoder) Relay(ctx context.Context, text string, emit EmitFunc) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for _, chunk := range e.Split(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return err
		}

		if e.delay == 0 {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(e.delay)
		} else {
			timer.Reset(e.delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
