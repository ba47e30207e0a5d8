package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/module/statemachine"
	"github.com/storekit/server/internal/shared/salescontext"
	"github.com/storekit/server/internal/shared/scope"
	"go.uber.org/zap"
)

// TransitionEngine is the slice of the state machine service the order
// module consumes.
type TransitionEngine interface {
	Transition(ctx context.Context, ws scope.WriteScope, machine string, entityID uuid.UUID, action string) (string, error)
}

// Service implements customer-facing order operations.
type Service struct {
	repo   Repository
	engine TransitionEngine
	logger *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, engine TransitionEngine, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

// GetOrder returns a single order owned by the context's customer.
func (s *Service) GetOrder(ctx context.Context, sc *salescontext.Context, orderID uuid.UUID) (*Order, error) {
	return s.repo.FindForCustomer(ctx, orderID, sc.CustomerID, true)
}

// ListOrders returns the customer's orders with their transactions.
func (s *Service) ListOrders(ctx context.Context, sc *salescontext.Context, pagination *Pagination) ([]*Order, int64, error) {
	return s.repo.ListForCustomer(ctx, sc.CustomerID, pagination)
}

// CancelOrder drives the order state machine's cancel action. The caller is
// authorized by the customer-scoped lookup; the state write itself runs under
// system scope.
func (s *Service) CancelOrder(ctx context.Context, sc *salescontext.Context, orderID uuid.UUID) error {
	ord, err := s.repo.FindForCustomer(ctx, orderID, sc.CustomerID, false)
	if err != nil {
		return err
	}

	if _, err := s.engine.Transition(ctx, scope.System, statemachine.MachineOrder, ord.ID, statemachine.ActionCancel); err != nil {
		if errors.Is(err, statemachine.ErrIllegalTransition) {
			return ErrOrderNotCancelable
		}
		return err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", ord.ID.String()),
		zap.String("customer_id", sc.CustomerID.String()),
	)
	return nil
}
