package relay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	enc := NewEncoder(30, 0)

	tests := []struct {
		name  string
		text  string
		count int
	}{
		{"empty", "", 0},
		{"single char", "a", 1},
		{"exact multiple", strings.Repeat("x", 60), 2},
		{"remainder", strings.Repeat("x", 61), 3},
		{"greeting", "Hi there! How can I help with your health today?", 2},
		{"multi-byte", strings.Repeat("आयुर्वेद", 10), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := enc.Split(tt.text)
			require.Len(t, chunks, tt.count)

			runes := utf8.RuneCountInString(tt.text)
			wantCount := (runes + 29) / 30
			assert.Equal(t, wantCount, len(chunks))

			for i, c := range chunks {
				assert.True(t, utf8.ValidString(c), "chunk %d is not valid utf-8", i)
				if i < len(chunks)-1 {
					assert.Equal(t, 30, utf8.RuneCountInString(c))
				} else {
					n := utf8.RuneCountInString(c)
					assert.True(t, n >= 1 && n <= 30, "last chunk has %d runes", n)
				}
			}
			assert.Equal(t, tt.text, strings.Join(chunks, ""))
		})
	}
}

func TestSplit_AstralCharacters(t *testing.T) {
	enc := NewEncoder(30, 0)

	// an emoji counts as one character even though it takes two UTF-16 units
	emoji := strings.Repeat("🌿", 30)
	assert.Equal(t, []string{emoji}, enc.Split(emoji))

	text := strings.Repeat("a", 29) + "🌿🌿" + "b"
	chunks := enc.Split(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 29)+"🌿", chunks[0])
	assert.Equal(t, "🌿b", chunks[1])
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
	}
}

func TestNewEncoder_Defaults(t *testing.T) {
	enc := NewEncoder(0, -time.Second)
	assert.Equal(t, DefaultChunkSize, enc.ChunkSize())
	assert.Equal(t, time.Duration(0), enc.delay)
}

func TestRelay_EmitsInOrder(t *testing.T) {
	enc := NewEncoder(4, time.Millisecond)
	text := "abcdefghij"

	var got []string
	err := enc.Relay(context.Background(), text, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, got)
}

func TestRelay_PacesChunks(t *testing.T) {
	delay := 20 * time.Millisecond
	enc := NewEncoder(2, delay)

	var stamps []time.Time
	err := enc.Relay(context.Background(), "aabbcc", func(string) error {
		stamps = append(stamps, time.Now())
		return nil
	})

	require.NoError(t, err)
	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), delay)
	}
}

func TestRelay_StopsOnEmitError(t *testing.T) {
	enc := NewEncoder(1, 0)
	broken := errors.New("broken pipe")

	calls := 0
	err := enc.Relay(context.Background(), "abc", func(string) error {
		calls++
		if calls == 2 {
			return broken
		}
		return nil
	})

	assert.ErrorIs(t, err, broken)
	assert.Equal(t, 2, calls)
}

func TestRelay_StopsOnCancel(t *testing.T) {
	enc := NewEncoder(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- enc.Relay(ctx, "abc", func(string) error {
			calls++
			return nil
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancellation")
	}
}

func TestRelay_CancelledBeforeStart(t *testing.T) {
	enc := NewEncoder(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := enc.Relay(ctx, "abc", func(string) error {
		t.Fatal("emit must not be called")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
