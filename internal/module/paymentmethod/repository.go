package paymentmethod

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for payment method data access.
type Repository interface {
	ListAvailable(ctx context.Context, salesChannelID uuid.UUID) ([]*PaymentMethod, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment method repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAvailable(ctx context.Context, salesChannelID uuid.UUID) ([]*PaymentMethod, error) {
	var methods []*PaymentMethod
	err := r.db.WithContext(ctx).
		Joins("JOIN payment_method_sales_channel psc ON psc.payment_method_id = payment_methods.id").
		Where("psc.sales_channel_id = ? AND payment_methods.active", salesChannelID).
		Order("payment_methods.position ASC").
		Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("list available payment methods: %w", err)
	}
	return methods, nil
}
