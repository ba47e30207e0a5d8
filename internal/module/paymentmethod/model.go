package paymentmethod

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod represents a payment method offered by the shop.
type PaymentMethod struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `json:"name" gorm:"not null"`
	TechnicalName string    `json:"technical_name" gorm:"uniqueIndex;not null"`
	Active        bool      `json:"active" gorm:"not null;default:true"`
	Position      int       `json:"position" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// SalesChannelAssignment links a payment method to a sales channel it is
// offered on.
type SalesChannelAssignment struct {
	PaymentMethodID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SalesChannelID  uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the database table name.
func (SalesChannelAssignment) TableName() string {
	return "payment_method_sales_channel"
}
