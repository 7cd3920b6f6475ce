// Package observability holds the Prometheus metrics of the chat endpoints.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the chat collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests          *prometheus.CounterVec
	chunks            *prometheus.CounterVec
	streamDuration    *prometheus.HistogramVec
	activeStreams     *prometheus.GaugeVec
	clientDisconnects *prometheus.CounterVec
	upstreamErrors    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: endpoint (chat, stream, ws), status (ok, invalid, upstream_error, disconnected, rate_limited)
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayuroot",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat requests by endpoint and outcome",
		}, []string{"endpoint", "status"}),

		chunks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayuroot",
			Subsystem: "chat",
			Name:      "chunks_total",
			Help:      "Total relayed response chunks",
		}, []string{"endpoint"}),

		streamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ayuroot",
			Subsystem: "chat",
			Name:      "stream_duration_seconds",
			Help:      "Time from request to terminal event",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"endpoint", "status"}),

		activeStreams: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ayuroot",
			Subsystem: "chat",
			Name:      "active_streams",
			Help:      "Streams currently open",
		}, []string{"endpoint"}),

		clientDisconnects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayuroot",
			Subsystem: "chat",
			Name:      "client_disconnects_total",
			Help:      "Streams abandoned by the client before the terminal event",
		}, []string{"endpoint"}),

		upstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayuroot",
			Subsystem: "chat",
			Name:      "upstream_errors_total",
			Help:      "AI backend failures",
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) ObserveRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, status).Inc()
}

func (m *Metrics) AddChunk(endpoint string) {
	if m == nil {
		return
	}
	m.chunks.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) ObserveStream(endpoint, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.streamDuration.WithLabelValues(endpoint, status).Observe(d.Seconds())
}

// StreamStarted increments the open stream gauge and returns the matching
// decrement.
func (m *Metrics) StreamStarted(endpoint string) func() {
	if m == nil {
		return func() {}
	}
	g := m.activeStreams.WithLabelValues(endpoint)
	g.Inc()
	return g.Dec
}

func (m *Metrics) ClientDisconnected(endpoint string) {
	if m == nil {
		return
	}
	m.clientDisconnects.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) UpstreamError(endpoint string) {
	if m == nil {
		return
	}
	m.upstreamErrors.WithLabelValues(endpoint).Inc()
}
