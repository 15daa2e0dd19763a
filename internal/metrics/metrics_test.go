package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveRequest_StatusClass(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, 204, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, 410, 10*time.Millisecond)
	m.ObserveRequest(http.MethodPost, 0, time.Second)

	assert.Equal(t, 2.0, counterValue(t, m.Requests.WithLabelValues(http.MethodGet, "2xx")))
	assert.Equal(t, 1.0, counterValue(t, m.Requests.WithLabelValues(http.MethodGet, "4xx")))
	assert.Equal(t, 1.0, counterValue(t, m.Requests.WithLabelValues(http.MethodPost, "error")))
}

func TestSetPhase_OnlyOneActive(t *testing.T) {
	m := New(prometheus.NewRegistry())
	all := []string{"anonymous", "otp_sent", "fully_authenticated"}

	m.SetPhase("otp_sent", all)
	m.SetPhase("fully_authenticated", all)

	assert.Equal(t, 0.0, gaugeValue(t, m.SessionPhase.WithLabelValues("anonymous")))
	assert.Equal(t, 0.0, gaugeValue(t, m.SessionPhase.WithLabelValues("otp_sent")))
	assert.Equal(t, 1.0, gaugeValue(t, m.SessionPhase.WithLabelValues("fully_authenticated")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, 200, time.Millisecond)
		m.ObserveRefresh(true)
		m.SetPhase("anonymous", nil)
	})
}

func TestNew_RegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRefresh(false)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "laundrypro_gateway_session_refreshes_total")
}
