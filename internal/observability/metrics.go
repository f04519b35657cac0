// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Discovery metrics
	TokensObserved prometheus.Counter
	TokensEligible prometheus.Counter
	PollErrors     prometheus.Counter

	// Quote metrics
	QuotesRequested *prometheus.CounterVec
	QuotesFailed    *prometheus.CounterVec
	UpstreamRetries *prometheus.CounterVec

	// Execution metrics
	BuysAttempted  prometheus.Counter
	BuysSucceeded  prometheus.Counter
	BuysFailed     prometheus.Counter
	SellsAttempted prometheus.Counter
	SellsSucceeded prometheus.Counter
	SellsFailed    prometheus.Counter

	// Scheduling metrics
	SellTasksPending  prometheus.Gauge
	OwnersBlacklisted prometheus.Counter

	// Loop metrics
	IterationDuration prometheus.Histogram
	EngineActive      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_sniper"
	}

	return &Metrics{
		TokensObserved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "tokens_observed_total",
			Help:      "Total number of tokens returned by the discovery poll",
		}),
		TokensEligible: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "tokens_eligible_total",
			Help:      "Total number of tokens that passed the safety filter",
		}),
		PollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "poll_errors_total",
			Help:      "Total number of failed discovery iterations",
		}),
		QuotesRequested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "requested_total",
			Help:      "Total number of quote requests by direction",
		}, []string{"direction"}),
		QuotesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "failed_total",
			Help:      "Total number of failed quote requests by direction",
		}, []string{"direction"}),
		UpstreamRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of rate-limit retries by API",
		}, []string{"api"}),
		BuysAttempted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "buys_attempted_total",
			Help:      "Total number of buy attempts",
		}),
		BuysSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "buys_succeeded_total",
			Help:      "Total number of submitted buy transactions",
		}),
		BuysFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "buys_failed_total",
			Help:      "Total number of failed buy attempts",
		}),
		SellsAttempted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "sells_attempted_total",
			Help:      "Total number of sell task firings",
		}),
		SellsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "sells_succeeded_total",
			Help:      "Total number of submitted sell transactions",
		}),
		SellsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "sells_failed_total",
			Help:      "Total number of failed sell tasks",
		}),
		SellTasksPending: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "sell_tasks_pending",
			Help:      "Number of armed sell tasks not yet resolved",
		}),
		OwnersBlacklisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "owners_blacklisted_total",
			Help:      "Total number of deployers blacklisted after sell failures",
		}),
		IterationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "iteration_duration_seconds",
			Help:      "Duration of one discovery/execution iteration",
			Buckets:   prometheus.DefBuckets,
		}),
		EngineActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "engine_active",
			Help:      "1 while the discovery loop is active",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPoll records one discovery poll: tokens observed and how many
// survived the filter.
func RecordPoll(observed, eligible int) {
	DefaultMetrics.TokensObserved.Add(float64(observed))
	DefaultMetrics.TokensEligible.Add(float64(eligible))
}

// RecordPollError increments the failed-iteration counter.
func RecordPollError() {
	DefaultMetrics.PollErrors.Inc()
}

// RecordQuotes records a quote fan-out by direction.
func RecordQuotes(direction string, requested, failed int) {
	DefaultMetrics.QuotesRequested.WithLabelValues(direction).Add(float64(requested))
	DefaultMetrics.QuotesFailed.WithLabelValues(direction).Add(float64(failed))
}

// RecordUpstreamRetry counts one rate-limit retry against the named API.
func RecordUpstreamRetry(api string) {
	DefaultMetrics.UpstreamRetries.WithLabelValues(api).Inc()
}

// RecordBuyOutcome records a resolved buy attempt.
func RecordBuyOutcome(success bool) {
	DefaultMetrics.BuysAttempted.Inc()
	if success {
		DefaultMetrics.BuysSucceeded.Inc()
	} else {
		DefaultMetrics.BuysFailed.Inc()
	}
}

// RecordSellOutcome records a resolved sell task.
func RecordSellOutcome(success bool) {
	DefaultMetrics.SellsAttempted.Inc()
	if success {
		DefaultMetrics.SellsSucceeded.Inc()
	} else {
		DefaultMetrics.SellsFailed.Inc()
	}
}

// SellTaskArmed tracks a newly scheduled sell task.
func SellTaskArmed() {
	DefaultMetrics.SellTasksPending.Inc()
}

// SellTaskResolved tracks a sell task finishing.
func SellTaskResolved() {
	DefaultMetrics.SellTasksPending.Dec()
}

// RecordOwnerBlacklisted increments the blacklist counter.
func RecordOwnerBlacklisted() {
	DefaultMetrics.OwnersBlacklisted.Inc()
}

// RecordIteration records one loop iteration's duration.
func RecordIteration(seconds float64) {
	DefaultMetrics.IterationDuration.Observe(seconds)
}

// SetEngineActive flips the active gauge.
func SetEngineActive(active bool) {
	if active {
		DefaultMetrics.EngineActive.Set(1)
	} else {
		DefaultMetrics.EngineActive.Set(0)
	}
}
