package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"accountd/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWithMetricsRecordsRequests(t *testing.T) {
	h := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/v1/me", "418"))
	if got != 1 {
		t.Fatalf("expected one observed request, got %v", got)
	}
}

func TestWithMetricsDefaultsToOK(t *testing.T) {
	h := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Implicit 200: handler writes nothing.
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	if got != 1 {
		t.Fatalf("expected one observed request, got %v", got)
	}
}

func TestWithMetricsSkipsScrapeEndpoint(t *testing.T) {
	h := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200"))
	if got != 0 {
		t.Fatalf("scrape endpoint must not count itself, got %v", got)
	}
}
