package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMessagingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMessagingMetrics(reg)

	m.ObserveInbound("text", "accepted")
	m.ObserveInbound("text", "accepted")
	m.ObserveOutbound("template", "sent")
	m.ObserveDedupe()
	m.ObserveWebhookLatency(0.05)

	if got := testutil.ToFloat64(m.inboundTotal.WithLabelValues("text", "accepted")); got != 2 {
		t.Fatalf("inbound counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.outboundTotal.WithLabelValues("template", "sent")); got != 1 {
		t.Fatalf("outbound counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.dedupeTotal); got != 1 {
		t.Fatalf("dedupe counter = %v, want 1", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *MessagingMetrics
	m.ObserveInbound("text", "accepted")
	m.ObserveOutbound("text", "sent")
	m.ObserveDedupe()
	m.ObserveWebhookLatency(1)
}
