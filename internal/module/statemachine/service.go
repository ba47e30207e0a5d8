package statemachine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storekit/server/internal/shared/metrics"
	"github.com/storekit/server/internal/shared/scope"
	"go.uber.org/zap"
)

// Service drives state machines through named actions.
type Service struct {
	registry *Registry
	repo     Repository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new transition engine. metrics may be nil.
func NewService(registry *Registry, repo Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		repo:     repo,
		metrics:  m,
		logger:   logger,
	}
}

// InitialState returns the initial state of the named machine.
func (s *Service) InitialState(machine string) (string, error) {
	m, err := s.registry.Machine(machine)
	if err != nil {
		return "", err
	}
	return m.Initial, nil
}

// Transition fires a named action against an entity, persisting the new state
// and a history row. Firing an action whose destination equals the current
// state is a no-op that succeeds without a write.
func (s *Service) Transition(ctx context.Context, ws scope.WriteScope, machine string, entityID uuid.UUID, action string) (string, error) {
	m, err := s.registry.Machine(machine)
	if err != nil {
		return "", err
	}

	from, err := s.repo.EntityState(ctx, machine, entityID)
	if err != nil {
		return "", err
	}

	to, ok := m.Destination(action, from)
	if !ok {
		return "", fmt.Errorf("%w: %s from %q via %q", ErrIllegalTransition, machine, from, action)
	}
	if to == from {
		return to, nil
	}

	if err := s.repo.SetEntityState(ctx, ws, machine, entityID, to); err != nil {
		return "", err
	}
	if err := s.repo.AppendHistory(ctx, ws, &HistoryEntry{
		ID:          uuid.New(),
		MachineName: machine,
		EntityID:    entityID,
		FromState:   from,
		ToState:     to,
		Action:      action,
	}); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(machine, action).Inc()
	}
	s.logger.Debug("state transition applied",
		zap.String("machine", machine),
		zap.String("entity_id", entityID.String()),
		zap.String("action", action),
		zap.String("from", from),
		zap.String("to", to),
	)

	return to, nil
}
