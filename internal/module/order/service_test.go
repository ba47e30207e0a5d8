package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/module/statemachine"
	"github.com/storekit/server/internal/shared/salescontext"
	"github.com/storekit/server/internal/shared/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID, withTransactions bool) (*Order, error) {
	args := m.Called(ctx, orderID, customerID, withTransactions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListForCustomer(ctx context.Context, customerID uuid.UUID, pagination *Pagination) ([]*Order, int64, error) {
	args := m.Called(ctx, customerID, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, ws scope.WriteScope, tx *OrderTransaction) error {
	args := m.Called(ctx, ws, tx)
	return args.Error(0)
}

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Transition(ctx context.Context, ws scope.WriteScope, machine string, entityID uuid.UUID, action string) (string, error) {
	args := m.Called(ctx, ws, machine, entityID, action)
	return args.String(0), args.Error(1)
}

func testContext() *salescontext.Context {
	return &salescontext.Context{
		Token:          "t",
		SalesChannelID: uuid.New(),
		CurrencyCode:   "EUR",
		CustomerID:     uuid.New(),
	}
}

func TestGetOrder(t *testing.T) {
	repo := &MockRepository{}
	service := NewService(repo, &MockEngine{}, zap.NewNop())
	sc := testContext()
	ord := &Order{ID: uuid.New(), CustomerID: sc.CustomerID, State: statemachine.StateOpen}

	repo.On("FindForCustomer", mock.Anything, ord.ID, sc.CustomerID, true).Return(ord, nil)

	got, err := service.GetOrder(context.Background(), sc, ord.ID)

	require.NoError(t, err)
	assert.Equal(t, ord, got)
}

func TestGetOrderNotFound(t *testing.T) {
	repo := &MockRepository{}
	service := NewService(repo, &MockEngine{}, zap.NewNop())
	sc := testContext()
	orderID := uuid.New()

	repo.On("FindForCustomer", mock.Anything, orderID, sc.CustomerID, true).Return(nil, ErrOrderNotFound)

	_, err := service.GetOrder(context.Background(), sc, orderID)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	repo := &MockRepository{}
	service := NewService(repo, &MockEngine{}, zap.NewNop())
	sc := testContext()
	orders := []*Order{{ID: uuid.New(), CustomerID: sc.CustomerID}}
	pagination := NewPagination()

	repo.On("ListForCustomer", mock.Anything, sc.CustomerID, pagination).Return(orders, int64(1), nil)

	got, total, err := service.ListOrders(context.Background(), sc, pagination)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)
}

func TestCancelOrder(t *testing.T) {
	repo := &MockRepository{}
	engine := &MockEngine{}
	service := NewService(repo, engine, zap.NewNop())
	sc := testContext()
	ord := &Order{ID: uuid.New(), CustomerID: sc.CustomerID, State: statemachine.StateOpen}

	repo.On("FindForCustomer", mock.Anything, ord.ID, sc.CustomerID, false).Return(ord, nil)
	engine.On("Transition", mock.Anything, scope.System, statemachine.MachineOrder, ord.ID, statemachine.ActionCancel).
		Return(statemachine.StateCancelled, nil)

	err := service.CancelOrder(context.Background(), sc, ord.ID)

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestCancelOrderNotCancelable(t *testing.T) {
	repo := &MockRepository{}
	engine := &MockEngine{}
	service := NewService(repo, engine, zap.NewNop())
	sc := testContext()
	ord := &Order{ID: uuid.New(), CustomerID: sc.CustomerID, State: statemachine.StateCompleted}

	repo.On("FindForCustomer", mock.Anything, ord.ID, sc.CustomerID, false).Return(ord, nil)
	engine.On("Transition", mock.Anything, scope.System, statemachine.MachineOrder, ord.ID, statemachine.ActionCancel).
		Return("", statemachine.ErrIllegalTransition)

	err := service.CancelOrder(context.Background(), sc, ord.ID)

	assert.ErrorIs(t, err, ErrOrderNotCancelable)
}

func TestCancelOrderNotFound(t *testing.T) {
	repo := &MockRepository{}
	engine := &MockEngine{}
	service := NewService(repo, engine, zap.NewNop())
	sc := testContext()
	orderID := uuid.New()

	repo.On("FindForCustomer", mock.Anything, orderID, sc.CustomerID, false).Return(nil, ErrOrderNotFound)

	err := service.CancelOrder(context.Background(), sc, orderID)

	assert.ErrorIs(t, err, ErrOrderNotFound)
	engine.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionLive(t *testing.T) {
	tests := []struct {
		name  string
		state string
		want  bool
	}{
		{"open", statemachine.StateOpen, true},
		{"paid", statemachine.StatePaid, true},
		{"failed", statemachine.StateFailed, true},
		{"cancelled", statemachine.StateCancelled, false},
		{"stateless", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := OrderTransaction{State: tt.state}
			assert.Equal(t, tt.want, tx.Live())
		})
	}
}
