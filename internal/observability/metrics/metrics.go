package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// BridgeMetrics exposes counters/histograms for webhook and call flows.
type BridgeMetrics struct {
	webhookTotal   *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
	callsTotal     *prometheus.CounterVec
	callStatus     *prometheus.CounterVec
	notifyTotal    *prometheus.CounterVec
}

var knownCallStatuses = map[string]struct{}{
	"queued":      {},
	"initiated":   {},
	"ringing":     {},
	"in-progress": {},
	"answered":    {},
	"completed":   {},
	"busy":        {},
	"failed":      {},
	"no-answer":   {},
	"canceled":    {},
}

func NewBridgeMetrics(reg prometheus.Registerer) *BridgeMetrics {
	m := &BridgeMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callbridge",
			Name:      "webhook_total",
			Help:      "Total inbound webhooks by route and outcome",
		}, []string{"route", "outcome"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "callbridge",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callbridge",
			Name:      "calls_originated_total",
			Help:      "Outbound call attempts by outcome",
		}, []string{"outcome"}),
		callStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callbridge",
			Name:      "call_status_total",
			Help:      "Call lifecycle callbacks by status",
		}, []string{"status"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callbridge",
			Name:      "notifications_total",
			Help:      "Chat notifications by delivery outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.webhookLatency, m.callsTotal, m.callStatus, m.notifyTotal)
	return m
}

func (m *BridgeMetrics) ObserveWebhook(route, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(route, outcome).Inc()
	m.webhookLatency.WithLabelValues(route).Observe(seconds)
}

func (m *BridgeMetrics) ObserveCall(outcome string) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCallStatus counts a lifecycle callback. Unknown statuses share the "other" label
// so provider input cannot grow label cardinality.
func (m *BridgeMetrics) ObserveCallStatus(status string) {
	if m == nil {
		return
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := knownCallStatuses[status]; !ok {
		status = "other"
	}
	m.callStatus.WithLabelValues(status).Inc()
}

func (m *BridgeMetrics) ObserveNotification(delivered bool) {
	if m == nil {
		return
	}
	label := "dropped"
	if delivered {
		label = "delivered"
	}
	m.notifyTotal.WithLabelValues(label).Inc()
}
