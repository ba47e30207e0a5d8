package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/shared/scope"
	"gorm.io/gorm"
)

// Repository defines the interface for order data access.
//
// Lookups are scoped to the owning customer: an order belonging to a
// different customer is indistinguishable from a missing one. Mutations
// require the system write scope.
type Repository interface {
	FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID, withTransactions bool) (*Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, pagination *Pagination) ([]*Order, int64, error)
	CreateTransaction(ctx context.Context, ws scope.WriteScope, tx *OrderTransaction) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID, withTransactions bool) (*Order, error) {
	query := r.db.WithContext(ctx)
	if withTransactions {
		query = query.Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	}

	var ord Order
	err := query.First(&ord, "id = ? AND customer_id = ?", orderID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &ord, nil
}

func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, pagination *Pagination) ([]*Order, int64, error) {
	var orders []*Order
	var total int64

	query := r.db.WithContext(ctx).Model(&Order{}).Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.PageSize)
	}

	err := query.
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) CreateTransaction(ctx context.Context, ws scope.WriteScope, tx *OrderTransaction) error {
	if err := ws.Check(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("create order transaction: %w", err)
	}
	return nil
}
