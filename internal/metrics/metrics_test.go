package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	require.NotNil(t, m)
	require.NotNil(t, m.registry)
}

func TestObserveDispatch(t *testing.T) {
	m := NewMetrics()

	m.ObserveDispatch("success", 50*time.Millisecond)
	m.ObserveDispatch("success", 10*time.Millisecond)
	m.ObserveDispatch("clarify", 5*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DispatchesTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DispatchesTotal.WithLabelValues("clarify")))
}

func TestObserveRoute(t *testing.T) {
	m := NewMetrics()

	m.ObserveRoute("keyword", "music")
	m.ObserveRoute("classifier", "weather")
	m.ObserveRoute("keyword", "music")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RouteHitsTotal.WithLabelValues("keyword", "music")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RouteHitsTotal.WithLabelValues("classifier", "weather")))
}

func TestObserveHandlerExecution(t *testing.T) {
	m := NewMetrics()

	m.ObserveHandlerExecution("files", "success", 20*time.Millisecond)
	m.ObserveHandlerExecution("files", "cannot_handle", 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HandlerExecutionsTotal.WithLabelValues("files", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HandlerExecutionsTotal.WithLabelValues("files", "cannot_handle")))
}

func TestObserveHandlerFault(t *testing.T) {
	m := NewMetrics()

	m.ObserveHandlerFault("music")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HandlerFaultsTotal.WithLabelValues("music")))
}

func TestObserveClassifierError(t *testing.T) {
	m := NewMetrics()

	m.ObserveClassifierError()
	m.ObserveClassifierError()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ClassifierErrorsTotal))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	// None of these may panic on a nil receiver.
	m.ObserveDispatch("success", time.Millisecond)
	m.ObserveRoute("keyword", "music")
	m.ObserveHandlerExecution("music", "success", time.Millisecond)
	m.ObserveHandlerFault("music")
	m.ObserveClassifierError()
}

func TestHandlerServesMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveDispatch("success", time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dispatch_requests_total"))
}
