package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
	}

	scoreBuckets = []float64{0, 7, 8, 10, 15, 20, 30, 48}

	SubmissionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "xssguard_submissions_total",
			Help: "Total number of inputs processed by the pipeline",
		},
		[]string{"context", "suspicious"},
	)

	RuleMatchesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "xssguard_rule_matches_total",
			Help: "Number of inputs each detection rule matched",
		},
		[]string{"rule"},
	)

	RiskScore = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xssguard_risk_score",
			Help:    "Risk score of suspicious inputs",
			Buckets: scoreBuckets,
		},
	)

	AttackLogFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "xssguard_attack_log_failures_total",
			Help: "Attack log writes that failed, by sink",
		},
		[]string{"sink"},
	)

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "xssguard_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xssguard_http_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method"},
	)
)

var initOnce sync.Once

// Initialize registers runtime collectors and makes the service registry the default.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Gatherer() prometheus.Gatherer {
	return registry
}
