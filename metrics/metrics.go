// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindOriginal = "original"
	KindRevision = "revision"
)

type Metrics struct {
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	quotationsCreated *prometheus.CounterVec
	numberConflicts   prometheus.Counter
	pdfRenders        *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	defaultSet  *Metrics
)

// Default returns the collectors registered on the default registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultSet = New(prometheus.DefaultRegisterer)
	})
	return defaultSet
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "empresspc",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "empresspc",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		quotationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "empresspc",
			Name:      "quotations_created_total",
			Help:      "Quotations created, split into originals and revisions.",
		}, []string{"kind"}),
		numberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "empresspc",
			Name:      "quotation_number_conflicts_total",
			Help:      "Generated quotation numbers rejected as duplicates.",
		}),
		pdfRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "empresspc",
			Name:      "quotation_pdf_renders_total",
			Help:      "Quotation PDF renders by result.",
		}, []string{"result"}),
	}
	registerer.MustRegister(m.requests, m.requestDuration, m.quotationsCreated, m.numberConflicts, m.pdfRenders)
	return m
}

func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) QuotationCreated(kind string) {
	if m == nil {
		return
	}
	m.quotationsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) NumberConflict() {
	if m == nil {
		return
	}
	m.numberConflicts.Inc()
}

func (m *Metrics) PDFRendered(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pdfRenders.WithLabelValues(result).Inc()
}
