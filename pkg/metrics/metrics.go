package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-коллекторов сервиса
// Record* методы безопасны для nil: метрики можно выключить в конфиге
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	QuotesSubmitted     *prometheus.CounterVec
	QuoteResolutions    *prometheus.CounterVec
	SlotValidations     *prometheus.CounterVec
	NotificationsIssued *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном registry (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: labels,
		}, []string{}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "In-use database connections",
			ConstLabels: labels,
		}, []string{}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}, []string{}),
		QuotesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quotes_submitted_total",
			Help:        "Quotes submitted or updated by workshops",
			ConstLabels: labels,
		}, []string{"kind"}),
		QuoteResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quote_resolutions_total",
			Help:        "Accept/decline attempts by outcome",
			ConstLabels: labels,
		}, []string{"action", "outcome"}),
		SlotValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_validations_total",
			Help:        "Slot validations by result",
			ConstLabels: labels,
		}, []string{"result"}),
		NotificationsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_issued_total",
			Help:        "Notifications produced by quote transitions",
			ConstLabels: labels,
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBWaitCount,
		m.QuotesSubmitted,
		m.QuoteResolutions,
		m.SlotValidations,
		m.NotificationsIssued,
	)

	return m
}

// RecordQuoteSubmitted kind: created | updated
func (m *Metrics) RecordQuoteSubmitted(kind string) {
	if m == nil {
		return
	}
	m.QuotesSubmitted.WithLabelValues(kind).Inc()
}

// RecordQuoteResolution action: accept | decline, outcome: success | conflict | rejected | error
func (m *Metrics) RecordQuoteResolution(action, outcome string) {
	if m == nil {
		return
	}
	m.QuoteResolutions.WithLabelValues(action, outcome).Inc()
}

// RecordSlotValidation result: available или код причины недоступности
func (m *Metrics) RecordSlotValidation(result string) {
	if m == nil {
		return
	}
	m.SlotValidations.WithLabelValues(result).Inc()
}

// RecordNotification учитывает выпущенное уведомление
func (m *Metrics) RecordNotification(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsIssued.WithLabelValues(notificationType).Inc()
}
