package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/model"
)

func success() *generate.Result {
	return &generate.Result{Success: &generate.Success{
		Content:    "x",
		TokensUsed: 900,
		Model:      "gpt-4o-mini",
		Cost: model.Cost{Amounts: []model.Amount{
			{Currency: model.USD, Value: 0.0135},
			{Currency: model.QAR, Value: 0.05},
		}},
	}}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(success()))
	assert.Equal(t, "rate_limited", Outcome(&generate.Result{Failure: &generate.Failure{Kind: generate.KindRateLimited}}))
	assert.Equal(t, "unknown", Outcome(nil))
	assert.Equal(t, "unknown", Outcome(&generate.Result{}))
}

func TestCollector_ObserveGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveGeneration(success(), 2*time.Second)
	c.ObserveGeneration(success(), time.Second)
	c.ObserveGeneration(&generate.Result{Failure: &generate.Failure{Kind: generate.KindAuthentication}}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.generations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generations.WithLabelValues("authentication")))
	assert.Equal(t, 1800.0, testutil.ToFloat64(c.tokens.WithLabelValues("gpt-4o-mini")))
	assert.InDelta(t, 0.027, testutil.ToFloat64(c.cost.WithLabelValues("gpt-4o-mini", "usd")), 1e-9)
	assert.InDelta(t, 0.1, testutil.ToFloat64(c.cost.WithLabelValues("gpt-4o-mini", "qar")), 1e-9)

	n, err := testutil.GatherAndCount(reg, "prospectkit_generation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one histogram series per outcome")
}

func TestCollector_ObserveDuplicate(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.ObserveDuplicate()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.duplicates))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generations.WithLabelValues("duplicate")))
}

func TestCollector_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHTTP("POST", "/v1/generations", 200, 50*time.Millisecond)
	c.ObserveHTTP("GET", "", 404, time.Millisecond)

	expected := `
# HELP prospectkit_http_requests_total Total number of HTTP requests
# TYPE prospectkit_http_requests_total counter
prospectkit_http_requests_total{method="GET",path="unknown",status="404"} 1
prospectkit_http_requests_total{method="POST",path="/v1/generations",status="200"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "prospectkit_http_requests_total")
	assert.NoError(t, err)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
