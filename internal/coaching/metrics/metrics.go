package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	InvitationsCreated *prometheus.CounterVec
	InvitationsFailed  *prometheus.CounterVec
	EmailFailures      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		InvitationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ikigai_invitations_created_total",
			Help: "Total relationships created by the invitation endpoint",
		}, []string{"status"}),
		InvitationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ikigai_invitations_failed_total",
			Help: "Total invitation requests rejected before a relationship was created",
		}, []string{"reason"}),
		EmailFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ikigai_invitation_email_failures_total",
			Help: "Invitation emails that failed to send after the relationship was persisted",
		}),
	}
}

func (m *Metrics) IncrementCreated(status string) {
	m.InvitationsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementFailed(reason string) {
	m.InvitationsFailed.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementEmailFailure() {
	m.EmailFailures.Inc()
}
