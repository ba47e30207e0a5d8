package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storekit/server/internal/module/order"
	"github.com/storekit/server/internal/module/statemachine"
	"github.com/storekit/server/internal/shared/middleware"
	"github.com/storekit/server/internal/shared/salescontext"
	"github.com/storekit/server/internal/shared/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(f *workflowFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/store-api", func(c *gin.Context) {
		c.Set(middleware.SalesContextKey, f.sc)
		c.Next()
	})
	NewHandler(f.service, nil).RegisterRoutes(group)

	return router
}

func postPayment(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/store-api/order/payment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetPaymentMethodEndpoint(t *testing.T) {
	f := newFixture()
	router := setupRouter(f)
	methodID := uuid.New()
	ord := testOrder(f.sc.CustomerID)

	f.store.On("FindForCustomer", mock.Anything, ord.ID, f.sc.CustomerID, true).Return(ord, nil)
	f.catalog.On("ListAvailable", mock.Anything, f.sc).Return(catalogWith(methodID), nil)
	f.engine.On("InitialState", statemachine.MachineOrderTransaction).Return(statemachine.StateOpen, nil)
	f.store.On("CreateTransaction", mock.Anything, scope.System, mock.Anything).Return(nil)

	w := postPayment(t, router, SetPaymentRequest{
		OrderID:         ord.ID.String(),
		PaymentMethodID: methodID.String(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
}

func TestSetPaymentMethodEndpointOrderNotFound(t *testing.T) {
	f := newFixture()
	router := setupRouter(f)
	orderID := uuid.New()

	f.store.On("FindForCustomer", mock.Anything, orderID, f.sc.CustomerID, true).Return(nil, order.ErrOrderNotFound)

	w := postPayment(t, router, SetPaymentRequest{
		OrderID:         orderID.String(),
		PaymentMethodID: uuid.New().String(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "order_not_found"}`, w.Body.String())
}

func TestSetPaymentMethodEndpointUnknownMethod(t *testing.T) {
	f := newFixture()
	router := setupRouter(f)
	ord := testOrder(f.sc.CustomerID)

	f.store.On("FindForCustomer", mock.Anything, ord.ID, f.sc.CustomerID, true).Return(ord, nil)
	f.catalog.On("ListAvailable", mock.Anything, f.sc).Return(catalogWith(uuid.New()), nil)

	w := postPayment(t, router, SetPaymentRequest{
		OrderID:         ord.ID.String(),
		PaymentMethodID: uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "unknown_payment_method"}`, w.Body.String())
}

func TestSetPaymentMethodEndpointValidation(t *testing.T) {
	f := newFixture()
	router := setupRouter(f)

	tests := []struct {
		name string
		body any
	}{
		{"missing order id", gin.H{"paymentMethodId": uuid.New().String()}},
		{"missing payment method id", gin.H{"orderId": uuid.New().String()}},
		{"malformed order id", gin.H{"orderId": "not-a-uuid", "paymentMethodId": uuid.New().String()}},
		{"malformed payment method id", gin.H{"orderId": uuid.New().String(), "paymentMethodId": "not-a-uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postPayment(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	f.store.AssertNotCalled(t, "FindForCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetPaymentMethodEndpointRequiresCustomer(t *testing.T) {
	f := newFixture()
	f.sc = &salescontext.Context{Token: "t", SalesChannelID: uuid.New(), CurrencyCode: "EUR"}
	router := setupRouter(f)

	w := postPayment(t, router, SetPaymentRequest{
		OrderID:         uuid.New().String(),
		PaymentMethodID: uuid.New().String(),
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.store.AssertNotCalled(t, "FindForCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
