// Package metrics exposes Prometheus instruments for the messaging flows.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// MessagingMetrics counts inbound webhooks, outbound sends and dedupe
// suppressions. A nil receiver is a no-op so wiring stays optional.
type MessagingMetrics struct {
	inboundTotal   *prometheus.CounterVec
	outboundTotal  *prometheus.CounterVec
	dedupeTotal    prometheus.Counter
	webhookLatency prometheus.Histogram
}

func NewMessagingMetrics(reg prometheus.Registerer) *MessagingMetrics {
	m := &MessagingMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care",
			Subsystem: "im",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound WhatsApp webhook messages",
		}, []string{"kind", "status"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care",
			Subsystem: "im",
			Name:      "outbound_total",
			Help:      "Total outbound WhatsApp sends",
		}, []string{"type", "status"}),
		dedupeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "care",
			Subsystem: "im",
			Name:      "dedupe_suppressed_total",
			Help:      "Webhook messages suppressed as duplicates",
		}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "care",
			Subsystem: "im",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundTotal, m.dedupeTotal, m.webhookLatency)
	return m
}

func (m *MessagingMetrics) ObserveInbound(kind, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *MessagingMetrics) ObserveOutbound(msgType, status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(msgType, status).Inc()
}

func (m *MessagingMetrics) ObserveDedupe() {
	if m == nil {
		return
	}
	m.dedupeTotal.Inc()
}

func (m *MessagingMetrics) ObserveWebhookLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
