package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/{kind}")

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `quotebill_http_requests_total{code="418",route="/api/{kind}"} 1`)
	assert.Contains(t, body, `quotebill_http_request_duration_seconds_bucket{route="/api/{kind}"`)
}

func TestMetricsUnknownRoute(t *testing.T) {
	metrics := NewMetrics()
	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Contains(t, scrape(t, metrics), `quotebill_http_requests_total{code="200",route="unknown"} 1`)
}

func TestDocumentCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.DocumentSaved("bill", "create")
	metrics.DocumentSaved("bill", "create")
	metrics.DocumentSaved("quotation", "update")
	metrics.NumberReissued("bill")
	metrics.PDFRendered("quotation", nil)
	metrics.PDFRendered("quotation", errors.New("gotenberg down"))

	body := scrape(t, metrics)
	assert.Contains(t, body, `quotebill_documents_saved_total{kind="bill",op="create"} 2`)
	assert.Contains(t, body, `quotebill_documents_saved_total{kind="quotation",op="update"} 1`)
	assert.Contains(t, body, `quotebill_document_numbers_reissued_total{kind="bill"} 1`)
	assert.Contains(t, body, `quotebill_pdf_renders_total{kind="quotation",status="success"} 1`)
	assert.Contains(t, body, `quotebill_pdf_renders_total{kind="quotation",status="failure"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	assert.NotPanics(t, func() {
		metrics.DocumentSaved("bill", "create")
		metrics.NumberReissued("bill")
		metrics.PDFRendered("bill", nil)
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, metrics.Middleware(next))

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
