package handler

import (
	"net/http"

	"salesanalytics/internal/model"

	"github.com/gin-gonic/gin"
)

type RecommendationLister interface {
	Active() []model.Recommendation
}

type RecommendationHandler struct {
	recommendations RecommendationLister
}

func NewRecommendationHandler(recommendations RecommendationLister) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/recommendations", h.ListRecommendations)
}

// ListRecommendations returns active recommendations, highest priority first
// @Summary      List recommendations
// @Tags         recommendations
// @Produce      json
// @Success      200  {array}  model.Recommendation
// @Router       /api/recommendations [get]
func (h *RecommendationHandler) ListRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, h.recommendations.Active())
}
