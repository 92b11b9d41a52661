package handler

import (
	"net/http"
	"time"

	"salesanalytics/internal/service"
	"salesanalytics/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	revenueService    service.RevenueService
	now               func() time.Time
}

func NewStatisticsHandler(statisticsService service.StatisticsService, revenueService service.RevenueService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, revenueService: revenueService, now: time.Now}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("", h.GetStatistics)
		statsGroup.GET("/revenue", h.GetRevenueSeries)
	}
}

// @Summary      Get sales statistics
// @Description  Revenue, order count and top products for orders dated within a range
// @Tags         statistics
// @Produce      json
// @Param        startDate  query     string  false  "Start date, RFC3339 or YYYY-MM-DD (default: first day of current month)"
// @Param        endDate    query     string  false  "End date, RFC3339 or YYYY-MM-DD (default: now)"
// @Success      200        {object}  response.Response{data=model.SalesStatistics}
// @Failure      400        {object}  response.Response
// @Router       /api/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	startDate, endDate, ok := h.dateRange(c)
	if !ok {
		return
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// @Summary      Get revenue series
// @Description  Revenue and order count per day, week or month for orders dated within a range
// @Tags         statistics
// @Produce      json
// @Param        groupBy    query     string  false  "day, week or month (default: day)"
// @Param        startDate  query     string  false  "Start date, RFC3339 or YYYY-MM-DD (default: first day of current month)"
// @Param        endDate    query     string  false  "End date, RFC3339 or YYYY-MM-DD (default: now)"
// @Success      200        {object}  response.Response{data=[]model.RevenuePoint}
// @Failure      400        {object}  response.Response
// @Router       /api/statistics/revenue [get]
func (h *StatisticsHandler) GetRevenueSeries(c *gin.Context) {
	startDate, endDate, ok := h.dateRange(c)
	if !ok {
		return
	}

	points, err := h.revenueService.GetRevenueSeries(c.Request.Context(), service.RevenueFilter{
		GroupBy:   c.Query("groupBy"),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// dateRange reads startDate/endDate, defaulting to the current month so far.
// It writes a 400 and reports false on a malformed value.
func (h *StatisticsHandler) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := h.now().UTC()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endDate := now

	if v := c.Query("startDate"); v != "" {
		parsed, ok := parseRangeDate(v, false)
		if !ok {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid startDate format, expected RFC3339 or YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		startDate = parsed
	}
	if v := c.Query("endDate"); v != "" {
		parsed, ok := parseRangeDate(v, true)
		if !ok {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid endDate format, expected RFC3339 or YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		endDate = parsed
	}
	return startDate, endDate, true
}

// parseRangeDate accepts RFC3339 or a bare date. A bare end date covers the
// whole day.
func parseRangeDate(value string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
