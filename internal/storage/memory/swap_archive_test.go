package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

func TestSwapArchive_InsertBulkAndGet(t *testing.T) {
	archive := NewSwapArchive()
	ctx := context.Background()

	swaps := []domain.SwapEvent{
		{Signature: "s2", Timestamp: 2000, Side: domain.SwapSideSell, ValueUSD: 50},
		{Signature: "s1", Timestamp: 1000, Side: domain.SwapSideBuy, ValueUSD: 40},
	}

	if err := archive.InsertBulk(ctx, "wallet1", swaps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := archive.GetByWallet(ctx, "wallet1")
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Ordered by timestamp ascending regardless of insert order.
	if got[0].Signature != "s1" || got[1].Signature != "s2" {
		t.Errorf("order = [%s, %s], want [s1, s2]", got[0].Signature, got[1].Signature)
	}
}

func TestSwapArchive_AppendAcrossBatches(t *testing.T) {
	archive := NewSwapArchive()
	ctx := context.Background()

	if err := archive.InsertBulk(ctx, "w", []domain.SwapEvent{{Signature: "a", Timestamp: 1}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := archive.InsertBulk(ctx, "w", []domain.SwapEvent{{Signature: "b", Timestamp: 2}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, _ := archive.GetByWallet(ctx, "w")
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSwapArchive_EmptyWalletAndNoData(t *testing.T) {
	archive := NewSwapArchive()
	ctx := context.Background()

	if err := archive.InsertBulk(ctx, "", []domain.SwapEvent{{Signature: "a"}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	got, err := archive.GetByWallet(ctx, "unknown")
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
