package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storekit/server/internal/shared/salescontext"
	"go.uber.org/zap"
)

// SalesContextKey is the gin context key for the resolved sales context.
const SalesContextKey = "sales_context"

// SalesContext resolves the X-Context-Token header to a sales context,
// creating a fresh anonymous one when the header is missing or stale. A
// customer identity bound by CustomerAuth is attached to the context.
func SalesContext(store *salescontext.Store, salesChannelID uuid.UUID, currency string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sc *salescontext.Context
		if token := c.GetHeader(salescontext.HeaderContextToken); token != "" {
			loaded, err := store.Get(ctx, token)
			switch {
			case err == nil:
				sc = loaded
			case errors.Is(err, salescontext.ErrSessionNotFound):
				// Stale token, fall through to a fresh context.
			default:
				log.Error("resolve sales context", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": gin.H{"code": "CONTEXT_UNAVAILABLE", "message": "sales context unavailable"},
				})
				return
			}
		}

		if sc == nil {
			created, err := store.Create(ctx, salesChannelID, currency)
			if err != nil {
				log.Error("create sales context", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": gin.H{"code": "CONTEXT_UNAVAILABLE", "message": "sales context unavailable"},
				})
				return
			}
			sc = created
		}

		// Bind the authenticated customer to the context for this request.
		if customerID := GetCustomerID(c); customerID != uuid.Nil && sc.CustomerID != customerID {
			sc.CustomerID = customerID
			sc.Guest = c.GetBool(GuestKey)
			if err := store.Save(ctx, sc); err != nil {
				log.Warn("persist sales context", zap.Error(err))
			}
		}

		c.Set(SalesContextKey, sc)
		c.Header(salescontext.HeaderContextToken, sc.Token)
		c.Request = c.Request.WithContext(salescontext.With(ctx, sc))

		c.Next()
	}
}

// GetSalesContext returns the sales context bound to the request.
func GetSalesContext(c *gin.Context) *salescontext.Context {
	val, exists := c.Get(SalesContextKey)
	if !exists {
		return nil
	}
	sc, _ := val.(*salescontext.Context)
	return sc
}

// RequireCustomer aborts with 401 unless the sales context carries a customer
// identity (registered or logged-in guest).
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sc := GetSalesContext(c); !sc.Authenticated() {
			abortUnauthorized(c, "CUSTOMER_NOT_LOGGED_IN", "customer is not logged in")
			return
		}
		c.Next()
	}
}
