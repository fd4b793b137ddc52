package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead submission pipeline.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	summaryFailures  prometheus.Counter
	emailFailures    prometheus.Counter
	submitLatency    prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotenest",
			Subsystem: "lead",
			Name:      "submissions_total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		summaryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quotenest",
			Subsystem: "lead",
			Name:      "summary_failures_total",
			Help:      "Total failed AI summary generations",
		}),
		emailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quotenest",
			Subsystem: "lead",
			Name:      "email_failures_total",
			Help:      "Total failed lead notification emails",
		}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quotenest",
			Subsystem: "lead",
			Name:      "submit_latency_seconds",
			Help:      "Latency of lead submission handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.summaryFailures, m.emailFailures, m.submitLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveSummaryFailure() {
	if m == nil {
		return
	}
	m.summaryFailures.Inc()
}

func (m *LeadMetrics) ObserveEmailFailure() {
	if m == nil {
		return
	}
	m.emailFailures.Inc()
}

func (m *LeadMetrics) ObserveSubmitLatency(seconds float64) {
	if m == nil {
		return
	}
	m.submitLatency.Observe(seconds)
}
