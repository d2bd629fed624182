// Package metrics 提供 Prometheus 指标集合与 Gin 中间件
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数，按方法/路由/状态码
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec
	// 已结算订单计数
	OrdersCompletedTotal prometheus.Counter
	// 结算失败计数，按原因
	CheckoutFailuresTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New 创建并注册指标集合
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrdersCompletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_completed_total",
			Help:      "Total number of completed orders",
		}),
		CheckoutFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_failures_total",
			Help:      "Total number of failed checkout attempts",
		}, []string{"reason"}),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersCompletedTotal,
		m.CheckoutFailuresTotal,
	)
	return m
}

// Handler 暴露 /metrics 抓取端点
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// OrderCompleted 记录一次成功结算
func (m *Metrics) OrderCompleted() {
	m.OrdersCompletedTotal.Inc()
}

// CheckoutFailed 记录一次结算失败
func (m *Metrics) CheckoutFailed(reason string) {
	m.CheckoutFailuresTotal.WithLabelValues(reason).Inc()
}

// GinMiddleware 记录每个请求的计数与耗时
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
