// Package metrics exposes booking counters to Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/raveworks-booking/internal/booking"
)

// Reporter counts submission outcomes.  It implements booking.Reporter.
type Reporter struct {
	registry            *prometheus.Registry
	outcomes            *prometheus.CounterVec
	persistenceFailures prometheus.Counter
}

// NewReporter registers the booking collectors, plus the Go and process
// collectors, on a fresh registry.
func NewReporter() *Reporter {
	r := &Reporter{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raveworks_booking_outcomes_total",
				Help: "Booking submissions by outcome",
			},
			[]string{"outcome"},
		),
		persistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raveworks_booking_persistence_failures_total",
			Help: "Confirmed bookings whose row could not be stored",
		}),
	}
	r.registry.MustRegister(
		r.outcomes,
		r.persistenceFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Report implements booking.Reporter.
func (r *Reporter) Report(_ context.Context, o booking.Outcome) {
	r.outcomes.WithLabelValues(string(o.Kind)).Inc()
	if o.Kind == booking.OutcomeSucceededDegraded {
		r.persistenceFailures.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Reporter) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Reporter) Registry() *prometheus.Registry { return r.registry }
