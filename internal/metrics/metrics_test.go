package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordList(false)
	m.RecordList(true)
	m.RecordList(true)
	m.RecordMutation("like", "ok")
	m.RecordAnalysis("fallback")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.listRequests.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.listRequests.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("like", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("fallback")))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/prompts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/prompts/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `prompthub_http_request_duration_seconds_count{method="GET",route="/api/prompts/{id}",status="404"} 1`)
}
