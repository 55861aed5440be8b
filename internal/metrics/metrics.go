package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LeadsCaptured = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total lead rows created",
		},
	)

	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total emails accepted by the provider",
		},
	)

	SendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_send_failures_total",
			Help: "Total failed dispatch attempts",
		},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_rate_limited_total",
			Help: "Total submissions rejected by the rate limiter",
		},
	)

	WebhookEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total accepted webhook events",
		},
	)

	WebhookRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_rejected_total",
			Help: "Total webhook requests rejected (bad signature or payload)",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		LeadsCaptured,
		EmailsSent,
		SendFailures,
		RateLimited,
		WebhookEvents,
		WebhookRejected,
	)
}
