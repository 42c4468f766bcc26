package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking metrics
	BookingsTotal   *prometheus.CounterVec
	BookingDuration prometheus.Histogram
	ConflictsTotal  prometheus.Counter

	// Patient query metrics
	PatientQueryDuration prometheus.Histogram
	PatientRowsFetched   prometheus.Histogram

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics against the given
// registerer. Tests pass a fresh prometheus.NewRegistry to avoid duplicate
// registration panics.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visit_bookings_total",
			Help:      "Total number of visit booking attempts by outcome",
		}, []string{"outcome"}),
		BookingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "visit_booking_duration_seconds",
			Help:      "Time spent processing visit bookings",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		ConflictsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visit_scheduling_conflicts_total",
			Help:      "Total number of bookings rejected for overlapping an existing visit",
		}),
		PatientQueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "patient_query_duration_seconds",
			Help:      "Time spent serving patient listing queries",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		PatientRowsFetched: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "patient_query_rows",
			Help:      "Flat rows fetched per patient listing query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations by kind and status",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Database operation latency by kind",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}
