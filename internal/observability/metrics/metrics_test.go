package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLeadMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission("accepted")
	m.ObserveSubmission("accepted")
	m.ObserveSubmission("rate_limited")
	m.ObserveSummaryFailure()
	m.ObserveEmailFailure()
	m.ObserveSubmitLatency(0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissionsTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissionsTotal.WithLabelValues("rate_limited")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.summaryFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.emailFailures))
}

func TestLeadMetricsNilReceiverIsSafe(t *testing.T) {
	var m *LeadMetrics

	assert.NotPanics(t, func() {
		m.ObserveSubmission("accepted")
		m.ObserveSummaryFailure()
		m.ObserveEmailFailure()
		m.ObserveSubmitLatency(0.01)
	})
}
