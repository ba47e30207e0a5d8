package payment

// SetPaymentRequest represents a request to set the payment method of an
// order.
type SetPaymentRequest struct {
	OrderID         string `json:"orderId" binding:"required"`
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
}
