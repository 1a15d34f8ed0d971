package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for the playback server.
type Metrics struct {
	registry             *prometheus.Registry
	connections          *prometheus.GaugeVec
	messagesRelayedTotal *prometheus.CounterVec
	commandsRejected     prometheus.Counter
	timecodeTicksTotal   prometheus.Counter
	persistFailures      prometheus.Counter
}

// New creates and registers Prometheus metrics for the server.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	connections := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "primetime_connections",
		Help: "Number of live websocket connections per channel",
	}, []string{"channel"})
	messagesRelayedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "primetime_messages_relayed_total",
		Help: "Total number of websocket messages handled, by message type",
	}, []string{"type"})
	commandsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "primetime_commands_rejected_total",
		Help: "Total number of transport commands rejected",
	})
	timecodeTicksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "primetime_timecode_ticks_total",
		Help: "Total number of timecode broadcasts sent to the show channel",
	})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "primetime_persist_failures_total",
		Help: "Total number of failed playback state persistence writes",
	})

	registry.MustRegister(
		connections,
		messagesRelayedTotal,
		commandsRejected,
		timecodeTicksTotal,
		persistFailures,
	)

	return &Metrics{
		registry:             registry,
		connections:          connections,
		messagesRelayedTotal: messagesRelayedTotal,
		commandsRejected:     commandsRejected,
		timecodeTicksTotal:   timecodeTicksTotal,
		persistFailures:      persistFailures,
	}
}

// SetConnections sets the live connection gauge for a channel.
func (m *Metrics) SetConnections(channel string, n int) {
	m.connections.WithLabelValues(channel).Set(float64(n))
}

// IncMessagesRelayed increments the relayed message counter for a type.
func (m *Metrics) IncMessagesRelayed(messageType string) {
	m.messagesRelayedTotal.WithLabelValues(messageType).Inc()
}

// IncCommandsRejected increments the rejected command counter.
func (m *Metrics) IncCommandsRejected() {
	m.commandsRejected.Inc()
}

// IncTimecodeTicks increments the timecode broadcast counter.
func (m *Metrics) IncTimecodeTicks() {
	m.timecodeTicksTotal.Inc()
}

// IncPersistFailures increments the persistence failure counter.
func (m *Metrics) IncPersistFailures() {
	m.persistFailures.Inc()
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
