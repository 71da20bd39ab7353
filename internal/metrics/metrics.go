// metrics — prometheus-коллекторы конвейера.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор коллекторов. Нулевой *Metrics допустим: методы ничего не делают.
type Metrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	sourceFetch   *prometheus.CounterVec
	inserted      prometheus.Counter
	summaries     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsradar",
			Name:      "cycles_total",
			Help:      "Ingestion cycles by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "newsradar",
			Name:      "cycle_duration_seconds",
			Help:      "Wall-clock duration of ingestion cycles.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		}),
		sourceFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsradar",
			Name:      "source_fetch_total",
			Help:      "Source fetches by kind and result.",
		}, []string{"kind", "result"}),
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsradar",
			Name:      "articles_inserted_total",
			Help:      "Articles inserted by ingestion and manual add.",
		}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsradar",
			Name:      "summaries_total",
			Help:      "Regenerated summaries by outcome (ai, fallback).",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsradar",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "newsradar",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.cycles, m.cycleDuration, m.sourceFetch, m.inserted, m.summaries,
			m.httpRequests, m.httpDuration,
		)
	}

	return m
}

// Cycle фиксирует завершённый цикл.
func (m *Metrics) Cycle(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(result).Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
}

// SourceFetch фиксирует исход загрузки одного источника.
func (m *Metrics) SourceFetch(kind string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.sourceFetch.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Inserted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.inserted.Add(float64(n))
}

func (m *Metrics) Summary(outcome string) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(outcome).Inc()
}

// HTTPRequest фиксирует обработанный HTTP-запрос.
func (m *Metrics) HTTPRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
