package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	documentsSaved  *prometheus.CounterVec
	numbersReissued *prometheus.CounterVec
	pdfRenders      *prometheus.CounterVec
}

// NewMetrics builds a private registry with HTTP and document collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotebill_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quotebill_http_request_duration_seconds",
		Help:    "HTTP request latency per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	saved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotebill_documents_saved_total",
		Help: "Persisted quotations and bills by kind and operation.",
	}, []string{"kind", "op"})
	reissued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotebill_document_numbers_reissued_total",
		Help: "Document numbers replaced because of a collision.",
	}, []string{"kind"})
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotebill_pdf_renders_total",
		Help: "PDF renders by kind and outcome.",
	}, []string{"kind", "status"})
	registry.MustRegister(requests, duration, saved, reissued, renders)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		documentsSaved:  saved,
		numbersReissued: reissued,
		pdfRenders:      renders,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for collectors owned by other packages.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// DocumentSaved counts a create or update of a document.
func (m *Metrics) DocumentSaved(kind, op string) {
	if m == nil {
		return
	}
	m.documentsSaved.WithLabelValues(kind, op).Inc()
}

// NumberReissued counts a number replaced after a unique violation.
func (m *Metrics) NumberReissued(kind string) {
	if m == nil {
		return
	}
	m.numbersReissued.WithLabelValues(kind).Inc()
}

// PDFRendered counts a PDF export attempt.
func (m *Metrics) PDFRendered(kind string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.pdfRenders.WithLabelValues(kind, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
