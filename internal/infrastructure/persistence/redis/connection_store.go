package redis

import (
	"context"
	"errors"

	"github.com/learnhub/learnhub-dashboard/internal/domain/connection"
)

// ConnectionStore persists the sheet connection state as JSON.
type ConnectionStore struct {
	cache *Cache
	key   string
}

var _ connection.Store = (*ConnectionStore)(nil)

// NewConnectionStore stores the state under PrefixConnection+"state".
func NewConnectionStore(cache *Cache) *ConnectionStore {
	return &ConnectionStore{cache: cache, key: PrefixConnection + "state"}
}

// Load returns the saved state, or Disconnected when nothing is stored.
func (s *ConnectionStore) Load(ctx context.Context) (connection.State, error) {
	var st connection.State
	if err := s.cache.Get(ctx, s.key, &st); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return connection.Disconnected(), nil
		}
		return connection.State{}, err
	}
	return st, nil
}

// Save overwrites the stored state.
func (s *ConnectionStore) Save(ctx context.Context, st connection.State) error {
	return s.cache.Set(ctx, s.key, st, 0)
}
