package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// UserStore implements storage.UserStore using PostgreSQL.
type UserStore struct {
	pool *Pool
}

// NewUserStore creates a new UserStore.
func NewUserStore(pool *Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

// Upsert records a wallet, keeping first_seen_at from the first insert.
func (s *UserStore) Upsert(ctx context.Context, wallet string, seenAt time.Time) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO users (wallet, first_seen_at)
		VALUES ($1, $2)
		ON CONFLICT (wallet) DO NOTHING
	`

	if _, err := s.pool.Exec(ctx, query, wallet, seenAt); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetByWallet retrieves a user. Returns ErrNotFound if not exists.
func (s *UserStore) GetByWallet(ctx context.Context, wallet string) (*storage.User, error) {
	query := `
		SELECT wallet, first_seen_at, last_analyzed_at
		FROM users
		WHERE wallet = $1
	`

	var u storage.User
	err := s.pool.QueryRow(ctx, query, wallet).Scan(
		&u.Wallet,
		&u.FirstSeenAt,
		&u.LastAnalyzedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by wallet: %w", err)
	}
	return &u, nil
}

// TouchAnalysis records when the wallet was last analyzed.
func (s *UserStore) TouchAnalysis(ctx context.Context, wallet string, at time.Time) error {
	query := `UPDATE users SET last_analyzed_at = $2 WHERE wallet = $1`

	tag, err := s.pool.Exec(ctx, query, wallet, at)
	if err != nil {
		return fmt.Errorf("touch analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
