package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/module/order"
	"github.com/storekit/server/internal/module/paymentmethod"
	"github.com/storekit/server/internal/module/statemachine"
	"github.com/storekit/server/internal/shared/salescontext"
	"github.com/storekit/server/internal/shared/scope"
	"go.uber.org/zap"
)

// OrderStore is the slice of the order repository the workflow consumes.
type OrderStore interface {
	FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID, withTransactions bool) (*order.Order, error)
	CreateTransaction(ctx context.Context, ws scope.WriteScope, tx *order.OrderTransaction) error
}

// MethodCatalog enumerates the payment methods offered to a sales context.
type MethodCatalog interface {
	ListAvailable(ctx context.Context, sc *salescontext.Context) ([]*paymentmethod.PaymentMethod, error)
}

// TransitionEngine drives the transaction state machine.
type TransitionEngine interface {
	InitialState(machine string) (string, error)
	Transition(ctx context.Context, ws scope.WriteScope, machine string, entityID uuid.UUID, action string) (string, error)
}

// Service implements the payment assignment workflow.
type Service struct {
	orders  OrderStore
	catalog MethodCatalog
	engine  TransitionEngine
	logger  *zap.Logger
}

// NewService creates a new payment service.
func NewService(orders OrderStore, catalog MethodCatalog, engine TransitionEngine, logger *zap.Logger) *Service {
	return &Service{
		orders:  orders,
		catalog: catalog,
		engine:  engine,
		logger:  logger,
	}
}

// SetPaymentMethod assigns a payment method to an order owned by the
// context's customer.
//
// If the order already carries a live transaction on the requested method the
// call is a no-op. Otherwise every existing transaction receives a cancel
// action and one new transaction is created in the machine's initial state
// with the order totals copied onto it. The caller is only authorized to
// request the change; the writes run under system scope.
func (s *Service) SetPaymentMethod(ctx context.Context, sc *salescontext.Context, orderID, paymentMethodID uuid.UUID) error {
	ord, err := s.orders.FindForCustomer(ctx, orderID, sc.CustomerID, true)
	if err != nil {
		return err
	}

	available, err := s.catalog.ListAvailable(ctx, sc)
	if err != nil {
		return fmt.Errorf("list available payment methods: %w", err)
	}
	if !containsMethod(available, paymentMethodID) {
		return fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, paymentMethodID)
	}

	// Walk the transactions in creation order. The first live transaction
	// already on the requested method satisfies the request; everything
	// scanned before it has been cancelled by then, which is accepted since
	// only one transaction is live at a time.
	for i := range ord.Transactions {
		tx := &ord.Transactions[i]
		if tx.Live() && tx.PaymentMethodID == paymentMethodID {
			s.logger.Debug("payment method already assigned",
				zap.String("order_id", ord.ID.String()),
				zap.String("transaction_id", tx.ID.String()),
			)
			return nil
		}
		if _, err := s.engine.Transition(ctx, scope.System, statemachine.MachineOrderTransaction, tx.ID, statemachine.ActionCancel); err != nil {
			return fmt.Errorf("cancel transaction %s: %w", tx.ID, err)
		}
	}

	initial, err := s.engine.InitialState(statemachine.MachineOrderTransaction)
	if err != nil {
		return err
	}

	tx := &order.OrderTransaction{
		ID:              uuid.New(),
		OrderID:         ord.ID,
		PaymentMethodID: paymentMethodID,
		State:           initial,
		AmountNet:       ord.AmountNet,
		AmountGross:     ord.AmountGross,
		AmountTax:       ord.AmountTax,
		TaxRate:         ord.TaxRate,
		Position:        nextPosition(ord.Transactions),
	}
	if err := s.orders.CreateTransaction(ctx, scope.System, tx); err != nil {
		return err
	}

	s.logger.Info("payment method assigned",
		zap.String("order_id", ord.ID.String()),
		zap.String("payment_method_id", paymentMethodID.String()),
		zap.String("transaction_id", tx.ID.String()),
	)
	return nil
}

func containsMethod(methods []*paymentmethod.PaymentMethod, id uuid.UUID) bool {
	for _, m := range methods {
		if m.ID == id {
			return true
		}
	}
	return false
}

func nextPosition(txs []order.OrderTransaction) int {
	next := 1
	for i := range txs {
		if txs[i].Position >= next {
			next = txs[i].Position + 1
		}
	}
	return next
}
