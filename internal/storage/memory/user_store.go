package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// UserStore is an in-memory implementation of storage.UserStore.
type UserStore struct {
	mu   sync.RWMutex
	data map[string]*storage.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		data: make(map[string]*storage.User),
	}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

// Upsert records a wallet, keeping FirstSeenAt from the first insert.
func (s *UserStore) Upsert(_ context.Context, wallet string, seenAt time.Time) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[wallet]; exists {
		return nil
	}
	s.data[wallet] = &storage.User{
		Wallet:      wallet,
		FirstSeenAt: seenAt,
	}
	return nil
}

// GetByWallet retrieves a user. Returns ErrNotFound if not exists.
func (s *UserStore) GetByWallet(_ context.Context, wallet string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.data[wallet]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *u
	if u.LastAnalyzedAt != nil {
		at := *u.LastAnalyzedAt
		copy.LastAnalyzedAt = &at
	}
	return &copy, nil
}

// TouchAnalysis records when the wallet was last analyzed.
func (s *UserStore) TouchAnalysis(_ context.Context, wallet string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.data[wallet]
	if !ok {
		return storage.ErrNotFound
	}
	u.LastAnalyzedAt = &at
	return nil
}
