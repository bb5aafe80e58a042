// Package metrics exposes Prometheus instrumentation for the booking and
// agreement lifecycle. Counters are registered on the default registry and
// served from the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhub_bookings_created_total",
		Help: "Booking requests created.",
	})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhub_bookings_confirmed_total",
		Help: "Bookings confirmed with a capacity reservation.",
	})

	CapacityRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhub_capacity_rejections_total",
		Help: "Confirmation attempts rejected because no rooms were left.",
	})

	SignaturesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostelhub_agreement_signatures_total",
		Help: "Agreement signatures recorded, by party.",
	}, []string{"party"})

	AgreementsActivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhub_agreements_activated_total",
		Help: "Agreements that reached active after both signatures.",
	})

	AgreementsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhub_agreements_expired_total",
		Help: "Active agreements expired past their end date.",
	})

	CompensationsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhub_compensations_applied_total",
		Help: "Automatic rollbacks of partially completed lifecycle transitions.",
	})
)
