package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetrics_ObserveGeneration(t *testing.T) {
	m := New()
	m.ObserveGeneration(3*time.Millisecond, 100, 1000, 5000)
	m.ObserveGenerationError()

	body := scrape(t, m)
	assert.Contains(t, body, `fleet_regenerations_total{outcome="ok"} 1`)
	assert.Contains(t, body, `fleet_regenerations_total{outcome="error"} 1`)
	assert.Contains(t, body, "fleet_snapshot_buses 100")
	assert.Contains(t, body, "fleet_snapshot_events 1000")
	assert.Contains(t, body, "fleet_snapshot_total_cost 5000")
	assert.Contains(t, body, "fleet_generation_duration_seconds_count 1")
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/summary", http.StatusOK, time.Millisecond)
	m.ObserveRequest("/api/summary", http.StatusOK, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{route="/api/summary",status="200"} 2`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration(time.Millisecond, 1, 1, 1)
		m.ObserveGenerationError()
		m.ObserveRequest("/", 200, time.Millisecond)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := New()
	b := New()
	a.ObserveGeneration(time.Millisecond, 42, 400, 1234.5)

	assert.Equal(t, 42.0, gaugeValue(t, a, "fleet_snapshot_buses"))
	assert.Equal(t, 0.0, gaugeValue(t, b, "fleet_snapshot_buses"))
}

func gaugeValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			require.NotEmpty(t, f.GetMetric())
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
