package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/shared/scope"
	"gorm.io/gorm"
)

// Repository persists entity states and transition history.
type Repository interface {
	EntityState(ctx context.Context, machine string, entityID uuid.UUID) (string, error)
	SetEntityState(ctx context.Context, ws scope.WriteScope, machine string, entityID uuid.UUID, state string) error
	AppendHistory(ctx context.Context, ws scope.WriteScope, entry *HistoryEntry) error
}

// stateColumn maps a machine to the table and column holding its state.
var stateColumns = map[string]struct {
	table  string
	column string
}{
	MachineOrder:            {table: "orders", column: "state"},
	MachineOrderTransaction: {table: "order_transactions", column: "state"},
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new state machine repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) EntityState(ctx context.Context, machine string, entityID uuid.UUID) (string, error) {
	loc, ok := stateColumns[machine]
	if !ok {
		return "", ErrMachineNotFound
	}

	var state *string
	err := r.db.WithContext(ctx).
		Table(loc.table).
		Select(loc.column).
		Where("id = ?", entityID).
		Take(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEntityNotFound
		}
		return "", fmt.Errorf("get entity state: %w", err)
	}
	if state == nil {
		return "", nil
	}
	return *state, nil
}

func (r *repository) SetEntityState(ctx context.Context, ws scope.WriteScope, machine string, entityID uuid.UUID, state string) error {
	if err := ws.Check(); err != nil {
		return err
	}
	loc, ok := stateColumns[machine]
	if !ok {
		return ErrMachineNotFound
	}

	res := r.db.WithContext(ctx).
		Table(loc.table).
		Where("id = ?", entityID).
		Update(loc.column, state)
	if res.Error != nil {
		return fmt.Errorf("set entity state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func (r *repository) AppendHistory(ctx context.Context, ws scope.WriteScope, entry *HistoryEntry) error {
	if err := ws.Check(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
