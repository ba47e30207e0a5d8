package salescontext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storekit/server/internal/shared/random"
)

// ErrSessionNotFound is returned when a context token resolves to nothing.
var ErrSessionNotFound = errors.New("sales context session not found")

const sessionKeyPrefix = "salescontext:"

// Store persists sales contexts keyed by context token.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewStore creates a new sales-context session store.
func NewStore(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create builds a fresh anonymous context for a sales channel and persists it.
func (s *Store) Create(ctx context.Context, salesChannelID uuid.UUID, currency string) (*Context, error) {
	token, err := random.Hex(16)
	if err != nil {
		return nil, fmt.Errorf("generate context token: %w", err)
	}

	sc := &Context{
		Token:          token,
		SalesChannelID: salesChannelID,
		CurrencyCode:   currency,
	}
	if err := s.Save(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Get resolves a context token to its sales context.
func (s *Store) Get(ctx context.Context, token string) (*Context, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sc Context
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sc, nil
}

// Save persists a sales context under its token, refreshing the TTL.
func (s *Store) Save(ctx context.Context, sc *Context) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sc.Token, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
