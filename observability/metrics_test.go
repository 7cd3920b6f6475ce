package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest("stream", "ok")
	m.ObserveRequest("stream", "ok")
	m.AddChunk("stream")
	m.UpstreamError("chat")
	m.ClientDisconnected("stream")
	m.ObserveStream("stream", "ok", 150*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("stream", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chunks.WithLabelValues("stream")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamErrors.WithLabelValues("chat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clientDisconnects.WithLabelValues("stream")))

	done := m.StreamStarted("ws")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeStreams.WithLabelValues("ws")))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeStreams.WithLabelValues("ws")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("chat", "ok")
		m.AddChunk("chat")
		m.ObserveStream("chat", "ok", time.Second)
		m.ClientDisconnected("chat")
		m.UpstreamError("chat")
		m.StreamStarted("chat")()
	})
}
