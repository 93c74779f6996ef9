package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the availability and booking flows.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	appointmentsCreated *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	reminders           *prometheus.CounterVec
	availabilityLookups *prometheus.CounterVec
	lookupLatency       prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agencyhub",
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Booking attempts by outcome (created, conflict, invalid, error)",
		}, []string{"outcome"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agencyhub",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Applied appointment status transitions",
		}, []string{"from", "to"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agencyhub",
			Subsystem: "booking",
			Name:      "notifications_total",
			Help:      "Outbound appointment notifications by kind and outcome",
		}, []string{"kind", "outcome"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agencyhub",
			Subsystem: "booking",
			Name:      "reminders_total",
			Help:      "Reminder sweep results per appointment",
		}, []string{"outcome"}),
		availabilityLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agencyhub",
			Subsystem: "booking",
			Name:      "availability_lookups_total",
			Help:      "Availability resolutions by outcome (ok, blocked, error)",
		}, []string{"outcome"}),
		lookupLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agencyhub",
			Subsystem: "booking",
			Name:      "availability_lookup_seconds",
			Help:      "Latency of availability resolution",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.appointmentsCreated,
		m.statusTransitions,
		m.notifications,
		m.reminders,
		m.availabilityLookups,
		m.lookupLatency,
	)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, outcomeOf(err)).Inc()
}

func (m *BookingMetrics) ObserveReminder(err error) {
	if m == nil {
		return
	}
	label := "sent"
	if err != nil {
		label = "failed"
	}
	m.reminders.WithLabelValues(label).Inc()
}

func (m *BookingMetrics) ObserveAvailability(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLookups.WithLabelValues(outcome).Inc()
	m.lookupLatency.Observe(seconds)
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
