// Package metrics holds the Prometheus collectors of the client.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "laundrypro"

// Metrics groups gateway and session collectors.
type Metrics struct {
	Requests       *prometheus.CounterVec
	RequestLatency prometheus.Histogram
	Refreshes      *prometheus.CounterVec
	SessionPhase   *prometheus.GaugeVec
}

// New registers the collectors on reg. A nil reg gets a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Upstream API requests by method and status class",
			},
			[]string{"method", "status"},
		),
		RequestLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Upstream API request latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
		),
		Refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "session_refreshes_total",
				Help:      "Session refresh attempts by result",
			},
			[]string{"result"},
		),
		SessionPhase: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "phase",
				Help:      "1 for the current authentication phase, 0 otherwise",
			},
			[]string{"phase"},
		),
	}
}

// ObserveRequest records one upstream call. status 0 means no response arrived.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, statusClass(status)).Inc()
	m.RequestLatency.Observe(elapsed.Seconds())
}

// ObserveRefresh records a session refresh attempt.
func (m *Metrics) ObserveRefresh(ok bool) {
	if m == nil {
		return
	}
	result := "failed"
	if ok {
		result = "ok"
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

// SetPhase marks phase as the only active session phase.
func (m *Metrics) SetPhase(phase string, all []string) {
	if m == nil {
		return
	}
	for _, p := range all {
		v := 0.0
		if p == phase {
			v = 1
		}
		m.SessionPhase.WithLabelValues(p).Set(v)
	}
}

func statusClass(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
