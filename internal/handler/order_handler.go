package handler

import (
	"net/http"

	"salesanalytics/internal/model"
	"salesanalytics/internal/service"
	"salesanalytics/pkg/pagination"
	"salesanalytics/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrderPage is one page of the order listing.
type OrderPage struct {
	Orders     []model.Order `json:"orders"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type OrderHandler struct {
	orderService service.OrderService
	// applied to POST only
	writeGuards []gin.HandlerFunc
}

func NewOrderHandler(orderService service.OrderService, writeGuards ...gin.HandlerFunc) *OrderHandler {
	return &OrderHandler{orderService: orderService, writeGuards: writeGuards}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("", append(h.writeGuards, h.CreateOrder)...)
	}
}

// CreateOrder stores a new order and pushes it to subscribers
// @Summary      Submit order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        payload  body      model.OrderInput  true  "Order payload"
// @Success      201      {object}  model.Order
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input model.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.Append(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders returns stored orders, newest first
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20, max: 100)"
// @Success      200    {object}  handler.OrderPage
// @Failure      503    {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: params.TotalPages(total),
	})
}

// GetOrder returns a single order
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  model.Order
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
