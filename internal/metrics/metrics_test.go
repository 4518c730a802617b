package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Resolution(OutcomeResolved)
	m.Resolution(OutcomeResolved)
	m.Resolution(OutcomeInvalid)
	m.LotCreated()
	m.PropertyCreated()
	m.PropertyCreated()
	m.DuplicityConflict("ALREADY_EXISTS")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lotsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.propsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.duplicityHits.WithLabelValues("ALREADY_EXISTS")))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/v1/hunts/:id", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/hunts/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.LotCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hunt_lots_created_total 1")
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Resolution(OutcomeError)
		m.LotCreated()
		m.PropertyCreated()
		m.DuplicityConflict("x")
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
	assert.Nil(t, m.Registry())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
