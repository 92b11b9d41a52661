package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.OrderIngested()
	m.OrderRejected("validation")
	m.RuleFailed("low_stock")
	m.RecommendationChanged("active")
	m.AnalyticsBroadcast()
	m.SubscriberAdded()
	m.SubscriberRemoved(true)
	m.MirrorFailed()
}

func TestCountersAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrderIngested()
	m.OrderIngested()
	m.RuleFailed("seasonal")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "orders_ingested_total 2") {
		t.Fatalf("metrics output missing ingested counter:\n%s", body)
	}
	if !strings.Contains(body, `recommendation_rule_failures_total{rule="seasonal"} 1`) {
		t.Fatalf("metrics output missing rule failures:\n%s", body)
	}
	if !strings.Contains(body, `http_requests_total{route="/ping",status="204"} 1`) {
		t.Fatalf("metrics output missing request counter:\n%s", body)
	}
}
