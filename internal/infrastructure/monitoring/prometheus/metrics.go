// Package prometheus registers and exposes the service's metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "laborguard"

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ComplaintsFiled counts newly filed complaints by category and priority.
	ComplaintsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_filed_total",
		Help:      "Complaints filed.",
	}, []string{"category", "priority"})

	// ComplaintTransitions counts status transitions by target status.
	ComplaintTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaint_transitions_total",
		Help:      "Complaint status transitions.",
	}, []string{"to"})

	// AppointmentsBooked counts automatic consultation bookings by specialization.
	AppointmentsBooked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_booked_total",
		Help:      "Appointments auto-booked.",
	}, []string{"specialization"})

	// AssignmentFailures counts officer-selection failures by specialization.
	AssignmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_failures_total",
		Help:      "Officer assignment attempts that found no candidate.",
	}, []string{"specialization"})

	// NotificationPublishFailures counts Kafka publish errors.
	NotificationPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_publish_failures_total",
		Help:      "Notification events that failed to publish.",
	})

	// NotificationDeliveries counts notifier worker delivery attempts by outcome.
	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_deliveries_total",
		Help:      "Notification email deliveries by outcome.",
	}, []string{"outcome"})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
