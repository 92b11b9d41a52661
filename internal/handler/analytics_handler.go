package handler

import (
	"net/http"

	"salesanalytics/internal/model"

	"github.com/gin-gonic/gin"
)

// SnapshotReader serves the composed dashboard view.
type SnapshotReader interface {
	Snapshot() model.Analytics
}

type AnalyticsHandler struct {
	analytics SnapshotReader
}

func NewAnalyticsHandler(analytics SnapshotReader) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/analytics", h.GetAnalytics)
}

// GetAnalytics returns the live analytics snapshot
// @Summary      Get analytics
// @Description  Revenue totals, top products, recent orders and last-minute activity
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  model.Analytics
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Snapshot())
}
