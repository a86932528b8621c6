package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type httpCall struct {
	method string
	route  string
	status int
}

type mockHTTPRecorder struct {
	mu    sync.Mutex
	calls []httpCall
}

func (m *mockHTTPRecorder) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, httpCall{method: method, route: route, status: statusCode})
}

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	rec := &mockHTTPRecorder{}

	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(rec))
	r.Get("/api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/api/jobs/123", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(rec.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(rec.calls))
	}
	if got := rec.calls[0]; got.route != "/api/jobs/{id}" || got.status != http.StatusNotFound || got.method != http.MethodGet {
		t.Errorf("first call = %+v", got)
	}
	if got := rec.calls[1]; got.route != "unmatched" {
		t.Errorf("unmatched route = %q, want %q", got.route, "unmatched")
	}
}
