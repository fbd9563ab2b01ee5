package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connections counts websocket connections currently open.
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codesync_ws_connections",
		Help: "Open websocket connections.",
	})

	// EventsRelayed counts inbound relay events by type.
	EventsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codesync_relay_events_total",
		Help: "Relay events processed, by event type.",
	}, []string{"type"})

	// FramesDropped counts frames dropped on slow consumers.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codesync_relay_frames_dropped_total",
		Help: "Outbound frames dropped because a client send buffer was full.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
