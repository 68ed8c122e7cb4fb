// Package storage defines persistence interfaces for reports, users, cached
// analytics and the swap archive, with sentinel errors shared by every
// backend.
package storage

import (
	"context"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

// ReportRecord is a stored report plus bookkeeping. WalletHash is a SHA-256
// digest of the wallet address: the plaintext address never reaches report
// storage.
type ReportRecord struct {
	ID         string
	WalletHash string
	Report     *domain.Report
	Commitment string
	CreatedAt  time.Time
	ExpiresAt  *time.Time
	ViewCount  int64
}

// User is a wallet that has authenticated at least once.
type User struct {
	Wallet         string
	FirstSeenAt    time.Time
	LastAnalyzedAt *time.Time
}

// CachedAnalytics is an aggregated snapshot cached per wallet.
type CachedAnalytics struct {
	Wallet        string                   `json:"wallet"`
	Snapshot      domain.AnalyticsSnapshot `json:"snapshot"`
	TxCount       int                      `json:"txCount"`
	LastSignature string                   `json:"lastSignature"`
	CachedAt      time.Time                `json:"cachedAt"`
}

// ReportStore provides access to report storage.
type ReportStore interface {
	// Insert adds a new report. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, r *ReportRecord) error

	// GetByID retrieves a report by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*ReportRecord, error)

	// IncrementViews bumps the view counter. Returns ErrNotFound if not exists.
	IncrementViews(ctx context.Context, id string) error

	// DeleteExpired removes reports whose expiry is before now and returns
	// how many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// UserStore provides access to user storage.
type UserStore interface {
	// Upsert records a wallet, keeping FirstSeenAt from the first insert.
	Upsert(ctx context.Context, wallet string, seenAt time.Time) error

	// GetByWallet retrieves a user. Returns ErrNotFound if not exists.
	GetByWallet(ctx context.Context, wallet string) (*User, error)

	// TouchAnalysis records when the wallet was last analyzed.
	TouchAnalysis(ctx context.Context, wallet string, at time.Time) error
}

// AnalyticsCache caches aggregated snapshots per wallet with a TTL.
type AnalyticsCache interface {
	// Put stores a snapshot for the wallet, replacing any previous entry.
	Put(ctx context.Context, entry *CachedAnalytics, ttl time.Duration) error

	// Get retrieves the cached snapshot. Returns ErrNotFound if missing or
	// expired.
	Get(ctx context.Context, wallet string) (*CachedAnalytics, error)
}

// SwapArchive stores reconstructed swaps for later re-aggregation.
type SwapArchive interface {
	// InsertBulk appends swaps for a wallet.
	InsertBulk(ctx context.Context, wallet string, swaps []domain.SwapEvent) error

	// GetByWallet retrieves archived swaps for a wallet, ordered by
	// timestamp ASC.
	GetByWallet(ctx context.Context, wallet string) ([]domain.SwapEvent, error)
}
