// Package metrics exposes Prometheus collectors for generations and the
// HTTP surface.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/randalmurphal/prospectkit/generate"
)

const namespace = "prospectkit"

// Outcome label values besides the failure kinds.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
)

// Collector records generation and HTTP metrics. It implements
// generate.Observer.
type Collector struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tokens      *prometheus.CounterVec
	cost        *prometheus.CounterVec
	duplicates  prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ generate.Observer = (*Collector)(nil)

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Total number of generations by outcome",
		}, []string{"outcome"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Generation duration in seconds",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"outcome"}),

		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total tokens reported by the provider",
		}, []string{"model"}),

		cost: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "cost_total",
			Help:      "Total priced cost of generations",
		}, []string{"model", "currency"}),

		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duplicates_total",
			Help:      "Requests answered from the session's last result",
		}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "path"}),
	}
}

// ObserveGeneration implements generate.Observer.
func (c *Collector) ObserveGeneration(res *generate.Result, elapsed time.Duration) {
	outcome := Outcome(res)
	c.generations.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	if !res.OK() {
		return
	}
	s := res.Success
	c.tokens.WithLabelValues(s.Model).Add(float64(s.TokensUsed))
	for _, a := range s.Cost.Amounts {
		c.cost.WithLabelValues(s.Model, strings.ToLower(string(a.Currency))).Add(a.Value)
	}
}

// ObserveDuplicate counts a request served from session memory.
func (c *Collector) ObserveDuplicate() {
	c.duplicates.Inc()
	c.generations.WithLabelValues(OutcomeDuplicate).Inc()
}

// ObserveHTTP records one handled HTTP request.
func (c *Collector) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = "unknown"
	}
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Outcome returns the outcome label for a result: "success" or the failure
// kind name.
func Outcome(res *generate.Result) string {
	switch {
	case res.OK():
		return OutcomeSuccess
	case res != nil && res.Failure != nil:
		return res.Failure.Kind.String()
	default:
		return generate.KindUnknown.String()
	}
}
