package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	WebhookEvents *prometheus.CounterVec
	Notifications *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewServerMetrics registers the service collectors on a private registry.
func NewServerMetrics() *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "marketplace",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Name:      "webhook_events_total",
		Help:      "Webhook events by type and outcome.",
	}, []string{"type", "outcome"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Name:      "notifications_total",
		Help:      "Notification attempts by sink and outcome.",
	}, []string{"sink", "outcome"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency, webhookEvents, notifications)
	return &ServerMetrics{
		Requests:      requests,
		LatencyMS:     latency,
		WebhookEvents: webhookEvents,
		Notifications: notifications,
		registry:      reg,
	}
}

// ObserveWebhook counts a webhook outcome. Safe on a nil receiver.
func (m *ServerMetrics) ObserveWebhook(eventType, outcome string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// ObserveNotification counts a notification attempt. Safe on a nil receiver.
func (m *ServerMetrics) ObserveNotification(sink, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(sink, outcome).Inc()
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
