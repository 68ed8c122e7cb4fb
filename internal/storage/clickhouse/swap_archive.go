package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// SwapArchive implements storage.SwapArchive using ClickHouse. The table is a
// ReplacingMergeTree keyed by (wallet, timestamp, signature), so re-archiving
// the same history is idempotent after merges.
type SwapArchive struct {
	conn *Conn
}

// NewSwapArchive creates a new SwapArchive.
func NewSwapArchive(conn *Conn) *SwapArchive {
	return &SwapArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.SwapArchive = (*SwapArchive)(nil)

// InsertBulk appends swaps for a wallet.
func (s *SwapArchive) InsertBulk(ctx context.Context, wallet string, swaps []domain.SwapEvent) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}
	if len(swaps) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_swaps (
			wallet, signature, timestamp, side,
			token_in_mint, token_in_sym, token_in_amt,
			token_out_mint, token_out_sym, token_out_amt,
			value_usd, dex
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sw := range swaps {
		err = batch.Append(
			wallet, sw.Signature, sw.Timestamp, sw.Side,
			sw.TokenIn.Mint, sw.TokenIn.Symbol, sw.TokenIn.Amount,
			sw.TokenOut.Mint, sw.TokenOut.Symbol, sw.TokenOut.Amount,
			sw.ValueUSD, sw.DEX,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByWallet retrieves archived swaps for a wallet, ordered by timestamp ASC.
func (s *SwapArchive) GetByWallet(ctx context.Context, wallet string) ([]domain.SwapEvent, error) {
	query := `
		SELECT signature, timestamp, side,
			token_in_mint, token_in_sym, token_in_amt,
			token_out_mint, token_out_sym, token_out_amt,
			value_usd, dex
		FROM wallet_swaps FINAL
		WHERE wallet = ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("query by wallet: %w", err)
	}
	defer rows.Close()

	return scanSwaps(rows)
}

// scanSwaps scans multiple rows.
func scanSwaps(rows driver.Rows) ([]domain.SwapEvent, error) {
	var swaps []domain.SwapEvent

	for rows.Next() {
		var sw domain.SwapEvent
		err := rows.Scan(
			&sw.Signature, &sw.Timestamp, &sw.Side,
			&sw.TokenIn.Mint, &sw.TokenIn.Symbol, &sw.TokenIn.Amount,
			&sw.TokenOut.Mint, &sw.TokenOut.Symbol, &sw.TokenOut.Amount,
			&sw.ValueUSD, &sw.DEX,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swap row: %w", err)
		}

		swaps = append(swaps, sw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap rows: %w", err)
	}

	return swaps, nil
}
