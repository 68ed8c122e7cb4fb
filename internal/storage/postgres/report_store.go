package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// ReportStore implements storage.ReportStore using PostgreSQL. The report
// body is stored as JSONB so verification runs against the exact published
// document.
type ReportStore struct {
	pool *Pool
}

// NewReportStore creates a new ReportStore.
func NewReportStore(pool *Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Insert adds a new report. Returns ErrDuplicateKey if the id exists.
func (s *ReportStore) Insert(ctx context.Context, r *storage.ReportRecord) error {
	if r == nil || r.ID == "" || r.Report == nil {
		return storage.ErrInvalidInput
	}

	body, err := json.Marshal(r.Report)
	if err != nil {
		return fmt.Errorf("marshal report body: %w", err)
	}

	query := `
		INSERT INTO reports (
			report_id, wallet_hash, body, commitment, created_at, expires_at, view_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.pool.Exec(ctx, query,
		r.ID,
		r.WalletHash,
		body,
		r.Commitment,
		r.CreatedAt,
		r.ExpiresAt,
		r.ViewCount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by its ID. Returns ErrNotFound if not exists.
func (s *ReportStore) GetByID(ctx context.Context, id string) (*storage.ReportRecord, error) {
	query := `
		SELECT report_id, wallet_hash, body, commitment, created_at, expires_at, view_count
		FROM reports
		WHERE report_id = $1
	`

	var (
		r    storage.ReportRecord
		body []byte
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&r.WalletHash,
		&body,
		&r.Commitment,
		&r.CreatedAt,
		&r.ExpiresAt,
		&r.ViewCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get report by id: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report body: %w", err)
	}
	r.Report = &report

	return &r, nil
}

// IncrementViews bumps the view counter. Returns ErrNotFound if not exists.
func (s *ReportStore) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE reports SET view_count = view_count + 1 WHERE report_id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteExpired removes reports whose expiry is before now.
func (s *ReportStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM reports WHERE expires_at IS NOT NULL AND expires_at < $1`

	tag, err := s.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired reports: %w", err)
	}
	return tag.RowsAffected(), nil
}
