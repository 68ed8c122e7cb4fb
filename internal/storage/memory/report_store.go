// Package memory provides in-memory storage implementations, used by tests
// and single-process deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// ReportStore is an in-memory implementation of storage.ReportStore.
type ReportStore struct {
	mu   sync.RWMutex
	data map[string]*storage.ReportRecord
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		data: make(map[string]*storage.ReportRecord),
	}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Insert adds a new report. Returns ErrDuplicateKey if the id exists.
func (s *ReportStore) Insert(_ context.Context, r *storage.ReportRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.ID] = &copy
	return nil
}

// GetByID retrieves a report by its ID. Returns ErrNotFound if not exists.
func (s *ReportStore) GetByID(_ context.Context, id string) (*storage.ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// IncrementViews bumps the view counter. Returns ErrNotFound if not exists.
func (s *ReportStore) IncrementViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data[id]
	if !ok {
		return storage.ErrNotFound
	}
	r.ViewCount++
	return nil
}

// DeleteExpired removes reports whose expiry is before now.
func (s *ReportStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, r := range s.data {
		if r.ExpiresAt != nil && r.ExpiresAt.Before(now) {
			delete(s.data, id)
			deleted++
		}
	}
	return deleted, nil
}
