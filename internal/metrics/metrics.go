// Package metrics exposes Prometheus instrumentation for the survey
// simulator and its admin server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	visitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skysurvey_visits_total",
			Help: "Total number of completed visits.",
		},
		[]string{"filter"},
	)

	rejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skysurvey_rejections_total",
			Help: "Total number of rejected visit requests.",
		},
		[]string{"reason"},
	)

	fallbackJumpsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skysurvey_fallback_jumps_total",
			Help: "Clock jumps taken because no dark window remained on the timeline.",
		},
	)

	clockMJD = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skysurvey_clock_mjd",
			Help: "Current simulation clock in modified julian days.",
		},
	)

	nightIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skysurvey_night",
			Help: "Current night index counted from survey start.",
		},
	)

	lastSlewSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skysurvey_last_slew_seconds",
			Help: "Slew time charged for the most recent visit.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skysurvey_http_requests_total",
			Help: "Total number of HTTP requests to the admin server.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skysurvey_http_duration_seconds",
			Help:    "Admin HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(visitsTotal)
	prometheus.MustRegister(rejectionsTotal)
	prometheus.MustRegister(fallbackJumpsTotal)
	prometheus.MustRegister(clockMJD)
	prometheus.MustRegister(nightIndex)
	prometheus.MustRegister(lastSlewSeconds)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// RecordVisit counts a completed visit and publishes its slew cost.
func RecordVisit(filter string, slewSec float64) {
	visitsTotal.WithLabelValues(filter).Inc()
	lastSlewSeconds.Set(slewSec)
}

// RecordRejection counts a rejected visit request by reason.
func RecordRejection(reason string, fallback bool) {
	rejectionsTotal.WithLabelValues(reason).Inc()
	if fallback {
		fallbackJumpsTotal.Inc()
	}
}

// SetClock publishes the simulation clock and night index.
func SetClock(mjd float64, night int) {
	clockMJD.Set(mjd)
	nightIndex.Set(float64(night))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each admin request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
