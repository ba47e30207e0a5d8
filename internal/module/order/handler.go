package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storekit/server/internal/shared/middleware"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	service *Service
}

// NewHandler creates a new order handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers order routes on the store API group. All routes
// require a customer identity on the sales context.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/order", middleware.RequireCustomer())
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/state/cancel", h.CancelOrder)
	}
}

// ListOrders returns the current customer's orders.
func (h *Handler) ListOrders(c *gin.Context) {
	sc := middleware.GetSalesContext(c)

	pagination := NewPagination()
	if err := c.ShouldBindQuery(pagination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), sc, pagination)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	responses := make([]*OrderResponse, len(orders))
	for i, ord := range orders {
		responses[i] = ord.ToResponse()
	}

	c.JSON(http.StatusOK, OrderListResponse{
		Orders:   responses,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
}

// GetOrder returns a single order owned by the current customer.
func (h *Handler) GetOrder(c *gin.Context) {
	sc := middleware.GetSalesContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	ord, err := h.service.GetOrder(c.Request.Context(), sc, orderID)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, ord.ToResponse())
}

// CancelOrder cancels an order owned by the current customer.
func (h *Handler) CancelOrder(c *gin.Context) {
	sc := middleware.GetSalesContext(c)

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.service.CancelOrder(c.Request.Context(), sc, orderID); err != nil {
		handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, ErrOrderNotCancelable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_not_cancelable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
