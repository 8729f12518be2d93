package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик Prometheus сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках компоненты получают nil
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge

	RelayOnline          prometheus.Gauge
	RelayUpdatesTotal    *prometheus.CounterVec
	RelayPollErrorsTotal prometheus.Counter

	CompletionRequestsTotal *prometheus.CounterVec
	CompletionDuration      prometheus.Histogram

	TelegramSendTotal *prometheus.CounterVec
}

// New создаёт метрики в собственном реестре с лейблом service
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established database connections",
			ConstLabels: labels,
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of database connections currently in use",
			ConstLabels: labels,
		}),

		RelayOnline: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "relay_online",
			Help:        "1 when the relay is polling Telegram, 0 otherwise",
			ConstLabels: labels,
		}),
		RelayUpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "relay_updates_total",
			Help:        "Inbound Telegram messages by command kind",
			ConstLabels: labels,
		}, []string{"command"}),
		RelayPollErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "relay_poll_errors_total",
			Help:        "Failed getUpdates calls",
			ConstLabels: labels,
		}),

		CompletionRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "completion_requests_total",
			Help:        "Chat completion requests by result",
			ConstLabels: labels,
		}, []string{"result"}),
		CompletionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "completion_request_duration_seconds",
			Help:        "Chat completion request duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		}),

		TelegramSendTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "telegram_send_total",
			Help:        "Outbound Telegram messages by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) SetDBConnections(open, inUse int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUseConnections.Set(float64(inUse))
}

func (m *Metrics) SetRelayOnline(online bool) {
	if m == nil {
		return
	}
	if online {
		m.RelayOnline.Set(1)
		return
	}
	m.RelayOnline.Set(0)
}

func (m *Metrics) IncRelayUpdate(command string) {
	if m == nil {
		return
	}
	m.RelayUpdatesTotal.WithLabelValues(command).Inc()
}

func (m *Metrics) IncPollError() {
	if m == nil {
		return
	}
	m.RelayPollErrorsTotal.Inc()
}

func (m *Metrics) ObserveCompletion(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CompletionRequestsTotal.WithLabelValues(result).Inc()
	m.CompletionDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncTelegramSend(result string) {
	if m == nil {
		return
	}
	m.TelegramSendTotal.WithLabelValues(result).Inc()
}
