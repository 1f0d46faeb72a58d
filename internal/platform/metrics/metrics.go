// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsCreated     prometheus.Counter
	SubmissionsReceived prometheus.Counter
	EmailsSent          prometheus.Counter
	DraftsGenerated     prometheus.Counter
	HTTPDuration        *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donationdesk_requests_created_total",
			Help: "Total donation requests created by staff.",
		}),
		SubmissionsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donationdesk_public_submissions_total",
			Help: "Total accepted public form submissions.",
		}),
		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donationdesk_reply_emails_sent_total",
			Help: "Total reply emails delivered.",
		}),
		DraftsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donationdesk_reply_drafts_generated_total",
			Help: "Total reply drafts generated.",
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donationdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
