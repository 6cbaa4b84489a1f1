package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "sqe"

// Option настройка Manager
type Option func(*Manager)

// WithNamespace задает namespace метрик
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry задает реестр; по умолчанию создается собственный
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// Manager метрики HTTP-сервера и запросов к БД оценок
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	queryDuration       *prometheus.HistogramVec
	queryErrors         *prometheus.CounterVec
	totalEntities       *prometheus.GaugeVec
}

// New создает и регистрирует метрики
func New(opts ...Option) *Manager {
	m := &Manager{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "evaluations",
		Name:      "query_duration_seconds",
		Help:      "Latency of evaluation database queries.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
	}, []string{"query"})

	m.queryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "evaluations",
		Name:      "query_errors_total",
		Help:      "Failed evaluation database queries.",
	}, []string{"query"})

	m.totalEntities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "evaluations",
		Name:      "total_entities",
		Help:      "Last computed totalEntities per year and data type.",
	}, []string{"year", "data_type"})

	m.registry.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.queryDuration,
		m.queryErrors,
		m.totalEntities,
	)
	return m
}

// Registry реестр для /metrics
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP учитывает обработанный HTTP-запрос
func (m *Manager) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveQuery учитывает запрос к БД
func (m *Manager) ObserveQuery(query string, d time.Duration, err error) {
	m.queryDuration.WithLabelValues(query).Observe(d.Seconds())
	if err != nil {
		m.queryErrors.WithLabelValues(query).Inc()
	}
}

// SetTotalEntities сохраняет последнее значение totalEntities
func (m *Manager) SetTotalEntities(year int, dataType string, value int) {
	m.totalEntities.WithLabelValues(strconv.Itoa(year), dataType).Set(float64(value))
}
