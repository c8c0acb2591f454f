package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Quoting records quotation lifecycle and flight assignment activity.
type Quoting struct {
	quotesGenerated     prometheus.Counter
	quotesSent          prometheus.Counter
	flightAssignments   prometheus.Counter
	compensations       *prometheus.CounterVec
	availabilityRefresh prometheus.Histogram
}

// NewQuoting registers the collectors on reg. A nil registerer yields a no-op recorder.
func NewQuoting(reg prometheus.Registerer) *Quoting {
	if reg == nil {
		return &Quoting{}
	}
	q := &Quoting{
		quotesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cargoquote_quotes_generated_total",
			Help: "Quotations created from cost estimates.",
		}),
		quotesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cargoquote_quotes_sent_total",
			Help: "Quotations marked as sent.",
		}),
		flightAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cargoquote_flight_assignments_total",
			Help: "Orders bound to a flight.",
		}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cargoquote_compensations_total",
			Help: "Compensating writes issued after a partial multi-write failure.",
		}, []string{"operation", "outcome"}),
		availabilityRefresh: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cargoquote_availability_refresh_seconds",
			Help:    "Duration of availability board refreshes.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(q.quotesGenerated, q.quotesSent, q.flightAssignments, q.compensations, q.availabilityRefresh)
	return q
}

func (q *Quoting) QuoteGenerated() {
	if q == nil || q.quotesGenerated == nil {
		return
	}
	q.quotesGenerated.Inc()
}

func (q *Quoting) QuoteSent() {
	if q == nil || q.quotesSent == nil {
		return
	}
	q.quotesSent.Inc()
}

func (q *Quoting) FlightAssigned() {
	if q == nil || q.flightAssignments == nil {
		return
	}
	q.flightAssignments.Inc()
}

// Compensation counts a rollback attempt; outcome is "ok" or "failed".
func (q *Quoting) Compensation(operation string, ok bool) {
	if q == nil || q.compensations == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	q.compensations.WithLabelValues(strings.ToLower(strings.TrimSpace(operation)), outcome).Inc()
}

func (q *Quoting) ObserveAvailabilityRefresh(d time.Duration) {
	if q == nil || q.availabilityRefresh == nil {
		return
	}
	q.availabilityRefresh.Observe(d.Seconds())
}
