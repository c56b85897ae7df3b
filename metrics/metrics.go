package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the booking service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	BookingsCreated      *prometheus.CounterVec
	StatusTransitions    *prometheus.CounterVec
	ConflictsDetected    *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	StatsCacheLookups    *prometheus.CounterVec
	RemindersSent        *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BookingsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_created_total",
				Help:      "Total number of bookings created",
			},
			[]string{"academy"},
		),

		StatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_status_transitions_total",
				Help:      "Total number of booking status changes",
			},
			[]string{"to"},
		),

		ConflictsDetected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_conflicts_total",
				Help:      "Total number of overlapping booking attempts",
			},
			[]string{"source"},
		),

		NotificationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_failures_total",
				Help:      "Total number of notifications that could not be delivered",
			},
			[]string{"type"},
		),

		StatsCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stats_cache_lookups_total",
				Help:      "Statistics cache lookups by result",
			},
			[]string{"result"},
		),

		RemindersSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminders_sent_total",
				Help:      "Total number of booking reminders processed",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) BookingCreated(academyID string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(academyID).Inc()
}

func (m *Metrics) StatusChanged(to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(to).Inc()
}

// Conflict counts an overlap caught by the application check ("check") or
// by the storage constraint ("constraint").
func (m *Metrics) Conflict(source string) {
	if m == nil {
		return
	}
	m.ConflictsDetected.WithLabelValues(source).Inc()
}

func (m *Metrics) NotificationFailed(eventType string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(eventType).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StatsCacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ReminderProcessed(ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.RemindersSent.WithLabelValues(status).Inc()
}
