package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServiceMetrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveConnections   prometheus.Gauge
	DBQueriesTotal      *prometheus.CounterVec
	LoginAttemptsTotal  *prometheus.CounterVec
}

func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests processed",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Duration of HTTP requests in seconds",
				ConstLabels: prometheus.Labels{"service": serviceName},
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ActiveConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name:        "active_connections",
				Help:        "Number of active connections",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
		),

		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "db_queries_total",
				Help:        "Total number of database queries by entity and operation",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
			[]string{"entity", "operation", "result"},
		),

		LoginAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "login_attempts_total",
				Help:        "Total number of login attempts",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
			[]string{"result"},
		),
	}
}

func (sm *ServiceMetrics) PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		sm.ActiveConnections.Inc()
		defer sm.ActiveConnections.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		sm.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()

		sm.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// ObserveQuery records the outcome of a single store call.
func (sm *ServiceMetrics) ObserveQuery(entity, operation string, err error) {
	if sm == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	sm.DBQueriesTotal.WithLabelValues(entity, operation, result).Inc()
}

// ObserveLogin records a login attempt outcome.
func (sm *ServiceMetrics) ObserveLogin(success bool) {
	if sm == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	sm.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

func SetupMetricsEndpoint(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
