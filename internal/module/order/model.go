package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/module/statemachine"
)

// Order represents a placed customer order.
//
// The totals are fixed when the order is placed; nothing in this service
// recalculates them.
type Order struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber    string    `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID     uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	SalesChannelID uuid.UUID `json:"sales_channel_id" gorm:"type:uuid;not null"`
	CurrencyCode   string    `json:"currency_code" gorm:"default:EUR"`
	AmountNet      int64     `json:"amount_net"`   // In cents
	AmountGross    int64     `json:"amount_gross"` // In cents
	AmountTax      int64     `json:"amount_tax"`   // In cents
	TaxRate        float64   `json:"tax_rate"`
	State          string    `json:"state" gorm:"not null;default:open"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Transactions []OrderTransaction `json:"transactions,omitempty" gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// OrderTransaction records one payment attempt tied to an order. The amount
// mirrors the order totals at creation time and is never recomputed.
type OrderTransaction struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID         uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID `json:"payment_method_id" gorm:"type:uuid;not null"`
	State           string    `json:"state"` // empty = never entered the machine
	AmountNet       int64     `json:"amount_net"`
	AmountGross     int64     `json:"amount_gross"`
	AmountTax       int64     `json:"amount_tax"`
	TaxRate         float64   `json:"tax_rate"`
	Position        int       `json:"position" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (OrderTransaction) TableName() string {
	return "order_transactions"
}

// Live reports whether the transaction represents a currently effective
// payment attempt. Stateless and cancelled transactions are not live.
func (t *OrderTransaction) Live() bool {
	return t.State != "" && t.State != statemachine.StateCancelled
}
