package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storekit/server/internal/module/order"
	"github.com/storekit/server/internal/shared/metrics"
	"github.com/storekit/server/internal/shared/middleware"
)

// Handler handles HTTP requests for order payment assignment.
type Handler struct {
	service *Service
	metrics *metrics.Metrics
}

// NewHandler creates a new payment handler. m may be nil.
func NewHandler(service *Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

// RegisterRoutes registers payment routes on the store API group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/order/payment", middleware.RequireCustomer(), h.SetPaymentMethod)
}

// SetPaymentMethod sets the payment method of an order.
func (h *Handler) SetPaymentMethod(c *gin.Context) {
	sc := middleware.GetSalesContext(c)

	var req SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	paymentMethodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
		return
	}

	if err := h.service.SetPaymentMethod(c.Request.Context(), sc, orderID, paymentMethodID); err != nil {
		h.record(resultLabel(err))
		handlePaymentError(c, err)
		return
	}

	h.record("success")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) record(result string) {
	if h.metrics != nil {
		h.metrics.PaymentAssignmentsTotal.WithLabelValues(result).Inc()
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, ErrUnknownPaymentMethod):
		return "unknown_payment_method"
	default:
		return "error"
	}
}

func handlePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, ErrUnknownPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_payment_method"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
