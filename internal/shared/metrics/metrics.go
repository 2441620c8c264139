package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors used by the attendance and grading services. Services accept *Registry so
// tests can pass a fresh one instead of touching the default registerer.
type Registry struct {
	CheckIns        *prometheus.CounterVec
	SessionsClosed  *prometheus.CounterVec
	GradesComputed  *prometheus.CounterVec
	CheckInDistance prometheus.Histogram
	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
}

func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		CheckIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rotc",
			Subsystem: "attendance",
			Name:      "check_ins_total",
			Help:      "Check-in attempts by outcome.",
		}, []string{"outcome"}),
		SessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rotc",
			Subsystem: "attendance",
			Name:      "sessions_completed_total",
			Help:      "Sessions moved to COMPLETED, by trigger.",
		}, []string{"trigger"}),
		GradesComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rotc",
			Subsystem: "grading",
			Name:      "grades_computed_total",
			Help:      "Grade rows computed, by status.",
		}, []string{"status"}),
		CheckInDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rotc",
			Subsystem: "attendance",
			Name:      "check_in_distance_meters",
			Help:      "Server-computed distance from the session center.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rotc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rotc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(r.CheckIns, r.SessionsClosed, r.GradesComputed, r.CheckInDistance, r.HTTPRequests, r.HTTPLatency)
	}
	return r
}

// Nop returns collectors that are not registered anywhere.
func Nop() *Registry {
	return NewRegistry(nil)
}
