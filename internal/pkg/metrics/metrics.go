// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealkit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealkit_http_panics_total",
			Help: "Handler panics recovered, by route",
		},
		[]string{"route"},
	)

	SubscriptionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealkit_subscription_events_total",
			Help: "Subscription lifecycle events by outcome",
		},
		[]string{"event", "outcome"},
	)
)

const (
	EventCreated      = "created"
	EventUpdated      = "updated"
	EventPaused       = "paused"
	EventReactivated  = "reactivated"
	EventCancelled    = "cancelled"
	EventDeleted      = "deleted"
	EventPauseApplied = "pause_applied"
)

// RecordSubscriptionEvent counts a lifecycle operation as ok or rejected.
func RecordSubscriptionEvent(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	SubscriptionEvents.WithLabelValues(event, outcome).Inc()
}
