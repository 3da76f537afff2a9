package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Redirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_requests_total",
		Help: "Total redirect requests.",
	})
	RedirectsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_rejected_total",
		Help: "Redirect requests rejected for a missing target.",
	})
	ClicksRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clicks_recorded_total",
		Help: "Clicks written to storage.",
	})
	ClickFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_record_failures_total",
		Help: "Clicks that could not be written.",
	})
	StatsRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_requests_total",
		Help: "Stats page renders by result.",
	}, []string{"result"})
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Database round-trip latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(Redirects, RedirectsRejected, ClicksRecorded, ClickFailures, StatsRequests, QueryDuration)
}

// ObserveQuery records the time since start. Use with defer.
func ObserveQuery(op string, start time.Time) {
	QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func Handler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
