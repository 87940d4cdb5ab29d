package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Consumers must
// tolerate a nil *Metrics so unit tests can skip registration.
type Metrics struct {
	BallotsCast        prometheus.Counter
	BallotsRejected    *prometheus.CounterVec
	BroadcastsSent     prometheus.Counter
	SubscribersDropped prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics. Call once per process;
// promauto panics on duplicate registration.
func New() *Metrics {
	return &Metrics{
		BallotsCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matadan_ballots_cast_total",
			Help: "Total number of ballots successfully cast",
		}),
		BallotsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "matadan_ballots_rejected_total",
			Help: "Ballots rejected, labelled by reason",
		}, []string{"reason"}),
		BroadcastsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matadan_broadcasts_sent_total",
			Help: "Result snapshots pushed to the live channel",
		}),
		SubscribersDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matadan_broadcast_subscribers_dropped_total",
			Help: "Live subscribers dropped for not keeping up",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matadan_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// RecordBallotRejected increments the rejection counter for a reason label.
func (m *Metrics) RecordBallotRejected(reason string) {
	if m == nil {
		return
	}
	m.BallotsRejected.WithLabelValues(reason).Inc()
}

// RecordBallotCast increments the successful ballot counter.
func (m *Metrics) RecordBallotCast() {
	if m == nil {
		return
	}
	m.BallotsCast.Inc()
}

// RecordBroadcast increments the broadcast counter.
func (m *Metrics) RecordBroadcast() {
	if m == nil {
		return
	}
	m.BroadcastsSent.Inc()
}

// RecordSubscriberDropped increments the dropped-subscriber counter.
func (m *Metrics) RecordSubscriberDropped() {
	if m == nil {
		return
	}
	m.SubscribersDropped.Inc()
}

// ObserveRequestDuration records HTTP latency for a route/status pair.
func (m *Metrics) ObserveRequestDuration(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
}
