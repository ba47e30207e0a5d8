package paymentmethod

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storekit/server/internal/shared/middleware"
)

// Handler handles HTTP requests for the payment method catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new payment method handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers payment method routes on the store API group.
// The catalog is readable by guests.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/payment-method", h.ListAvailable)
}

// ListAvailable returns the payment methods offered to the current context.
func (h *Handler) ListAvailable(c *gin.Context) {
	sc := middleware.GetSalesContext(c)

	methods, err := h.service.ListAvailable(c.Request.Context(), sc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payment methods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}
