package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// SwapArchive is an in-memory implementation of storage.SwapArchive.
type SwapArchive struct {
	mu   sync.RWMutex
	data map[string][]domain.SwapEvent
}

// NewSwapArchive creates a new in-memory swap archive.
func NewSwapArchive() *SwapArchive {
	return &SwapArchive{
		data: make(map[string][]domain.SwapEvent),
	}
}

// Compile-time interface check.
var _ storage.SwapArchive = (*SwapArchive)(nil)

// InsertBulk appends swaps for a wallet.
func (s *SwapArchive) InsertBulk(_ context.Context, wallet string, swaps []domain.SwapEvent) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}
	if len(swaps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[wallet] = append(s.data[wallet], swaps...)
	return nil
}

// GetByWallet retrieves archived swaps for a wallet, ordered by timestamp ASC.
func (s *SwapArchive) GetByWallet(_ context.Context, wallet string) ([]domain.SwapEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[wallet]
	result := make([]domain.SwapEvent, len(stored))
	copy(result, stored)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}
