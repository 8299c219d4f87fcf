package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AnalysesCreated  prometheus.Counter
	AnalyzerFailures prometheus.Counter
	ScoreFallbacks   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		AnalysesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ikigai_analyses_created_total",
			Help: "Total questionnaire analyses produced",
		}),
		AnalyzerFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ikigai_analyzer_failures_total",
			Help: "Upstream analyzer calls that failed and fell back to the local generator",
		}),
		ScoreFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ikigai_score_fallbacks_total",
			Help: "Analyses whose scores were computed locally because the upstream omitted them",
		}),
	}
}

func (m *Metrics) IncrementAnalysesCreated() {
	m.AnalysesCreated.Inc()
}

func (m *Metrics) IncrementAnalyzerFailures() {
	m.AnalyzerFailures.Inc()
}

func (m *Metrics) IncrementScoreFallbacks() {
	m.ScoreFallbacks.Inc()
}
