package monitoring

import (
	"lawlink/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	connectionsActive prometheus.Gauge
	roomsActive       prometheus.Gauge
	connectionsTotal  prometheus.Counter

	eventsRelayed *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec

	sessionStartsTotal prometheus.Counter
	sessionEndsTotal   prometheus.Counter
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		connectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lawlink_signal_connections_active",
			Help: "Current number of live websocket connections",
		}),

		roomsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lawlink_signal_rooms_active",
			Help: "Current number of consultation rooms with at least one member",
		}),

		connectionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawlink_signal_connections_total",
			Help: "Total number of websocket connections accepted",
		}),

		eventsRelayed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lawlink_signal_events_relayed_total",
			Help: "Events forwarded to room members, by event kind",
		}, []string{"kind"}),

		eventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lawlink_signal_events_dropped_total",
			Help: "Events dropped instead of forwarded, by event kind and reason",
		}, []string{"kind", "reason"}),

		sessionStartsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawlink_signal_session_starts_total",
			Help: "Observed room 0-to-1 transitions",
		}),

		sessionEndsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lawlink_signal_session_ends_total",
			Help: "Observed room drain-to-zero transitions",
		}),
	}
}

func (p *PrometheusCollector) RecordConnectionOpened() {
	p.connectionsActive.Inc()
	p.connectionsTotal.Inc()
}

func (p *PrometheusCollector) RecordConnectionClosed() {
	p.connectionsActive.Dec()
}

func (p *PrometheusCollector) RecordRoomCreated() {
	p.roomsActive.Inc()
}

func (p *PrometheusCollector) RecordRoomDeleted() {
	p.roomsActive.Dec()
}

func (p *PrometheusCollector) RecordEventRelayed(kind domain.EventKind, recipients int) {
	p.eventsRelayed.WithLabelValues(string(kind)).Add(float64(recipients))
}

func (p *PrometheusCollector) RecordEventDropped(kind domain.EventKind, reason string) {
	p.eventsDropped.WithLabelValues(string(kind), reason).Inc()
}

func (p *PrometheusCollector) RecordSessionStart(room domain.RoomID) {
	p.sessionStartsTotal.Inc()
}

func (p *PrometheusCollector) RecordSessionEnd(room domain.RoomID) {
	p.sessionEndsTotal.Inc()
}
