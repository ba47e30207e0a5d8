package paymentmethod

import (
	"context"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/shared/salescontext"
)

// Service exposes the payment method catalog.
type Service struct {
	repo Repository
}

// NewService creates a new payment method service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAvailable returns the methods currently offered to the sales context,
// ordered by position.
func (s *Service) ListAvailable(ctx context.Context, sc *salescontext.Context) ([]*PaymentMethod, error) {
	return s.repo.ListAvailable(ctx, sc.SalesChannelID)
}

// IsAvailable reports whether the method is currently offered to the context.
func (s *Service) IsAvailable(ctx context.Context, sc *salescontext.Context, paymentMethodID uuid.UUID) (bool, error) {
	methods, err := s.ListAvailable(ctx, sc)
	if err != nil {
		return false, err
	}
	for _, m := range methods {
		if m.ID == paymentMethodID {
			return true, nil
		}
	}
	return false, nil
}
