package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal     *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
	ordersIngested        prometheus.Counter
	ordersRejected        *prometheus.CounterVec
	ruleFailures          *prometheus.CounterVec
	recommendationUpdates *prometheus.CounterVec
	analyticsBroadcasts   prometheus.Counter
	subscribers           prometheus.Gauge
	subscriberOverflows   prometheus.Counter
	mirrorErrors          prometheus.Counter
}

// New registers the collectors on reg. Passing nil uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ordersIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_ingested_total",
			Help: "Orders durably stored and applied to the aggregates.",
		}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Orders that failed to append, by reason.",
		}, []string{"reason"}),
		ruleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendation_rule_failures_total",
			Help: "Recommendation rule evaluations that returned an error or panicked.",
		}, []string{"rule"}),
		recommendationUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendation_updates_total",
			Help: "Recommendation state changes emitted, by resulting status.",
		}, []string{"status"}),
		analyticsBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analytics_broadcasts_total",
			Help: "analytics_update messages published to subscribers.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_subscribers",
			Help: "Currently attached push subscribers.",
		}),
		subscriberOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "websocket_subscriber_overflows_total",
			Help: "Subscribers disconnected because their send queue was full.",
		}),
		mirrorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_mirror_errors_total",
			Help: "Orders that could not be mirrored to the message broker.",
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.ordersIngested,
		m.ordersRejected,
		m.ruleFailures,
		m.recommendationUpdates,
		m.analyticsBroadcasts,
		m.subscribers,
		m.subscriberOverflows,
		m.mirrorErrors,
	)

	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderIngested() {
	if m == nil {
		return
	}
	m.ordersIngested.Inc()
}

func (m *Metrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) RuleFailed(rule string) {
	if m == nil {
		return
	}
	m.ruleFailures.WithLabelValues(rule).Inc()
}

func (m *Metrics) RecommendationChanged(status string) {
	if m == nil {
		return
	}
	m.recommendationUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) AnalyticsBroadcast() {
	if m == nil {
		return
	}
	m.analyticsBroadcasts.Inc()
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved(overflow bool) {
	if m == nil {
		return
	}
	m.subscribers.Dec()
	if overflow {
		m.subscriberOverflows.Inc()
	}
}

func (m *Metrics) MirrorFailed() {
	if m == nil {
		return
	}
	m.mirrorErrors.Inc()
}
