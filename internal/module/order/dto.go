package order

import (
	"time"

	"github.com/google/uuid"
)

// CancelOrderRequest represents a request to cancel an order.
type CancelOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NewPagination creates pagination with defaults.
func NewPagination() *Pagination {
	return &Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID           uuid.UUID             `json:"id"`
	OrderNumber  string                `json:"orderNumber"`
	CurrencyCode string                `json:"currencyCode"`
	AmountNet    int64                 `json:"amountNet"`
	AmountGross  int64                 `json:"amountGross"`
	AmountTax    int64                 `json:"amountTax"`
	State        string                `json:"state"`
	CreatedAt    time.Time             `json:"createdAt"`
	Transactions []TransactionResponse `json:"transactions"`
}

// TransactionResponse represents an order transaction in API responses.
type TransactionResponse struct {
	ID              uuid.UUID `json:"id"`
	PaymentMethodID uuid.UUID `json:"paymentMethodId"`
	State           string    `json:"state"`
	AmountGross     int64     `json:"amountGross"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToResponse converts an Order to OrderResponse.
func (o *Order) ToResponse() *OrderResponse {
	resp := &OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CurrencyCode: o.CurrencyCode,
		AmountNet:    o.AmountNet,
		AmountGross:  o.AmountGross,
		AmountTax:    o.AmountTax,
		State:        o.State,
		CreatedAt:    o.CreatedAt,
		Transactions: make([]TransactionResponse, len(o.Transactions)),
	}
	for i, tx := range o.Transactions {
		resp.Transactions[i] = TransactionResponse{
			ID:              tx.ID,
			PaymentMethodID: tx.PaymentMethodID,
			State:           tx.State,
			AmountGross:     tx.AmountGross,
			CreatedAt:       tx.CreatedAt,
		}
	}
	return resp
}

// OrderListResponse represents a paginated list of orders.
type OrderListResponse struct {
	Orders   []*OrderResponse `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}
