package swap

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/registry"
)

func TestReconstructBatch_Empty(t *testing.T) {
	r := NewReconstructor()
	if got := r.ReconstructBatch(nil, testWallet); got != nil {
		t.Errorf("ReconstructBatch(nil) = %v, want nil", got)
	}
}

func TestReconstructBatch_PreservesInputOrder(t *testing.T) {
	r := NewReconstructor()

	var txs []domain.RawTransaction
	for i := 0; i < 200; i++ {
		sig := fmt.Sprintf("sig-%03d", i)
		if i%3 == 0 {
			// Not a swap: no DEX instruction.
			txs = append(txs, domain.RawTransaction{
				Signature:    sig,
				Instructions: []domain.Instruction{{ProgramID: "NotADex111111111111111111111111111111111"}},
			})
			continue
		}
		txs = append(txs, dexTx(sig, JupiterV6,
			transfer(testWallet, otherParty, registry.USDCMint, uint64(i+1)*1_000_000),
			transfer(otherParty, testWallet, tokenXMint, 1_000_000_000),
		))
	}

	swaps := r.ReconstructBatch(txs, testWallet)

	var want []string
	for i := 0; i < 200; i++ {
		if i%3 != 0 {
			want = append(want, fmt.Sprintf("sig-%03d", i))
		}
	}
	var got []string
	for _, s := range swaps {
		got = append(got, s.Signature)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("batch order mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestReconstructBatch_DeterministicAcrossRuns(t *testing.T) {
	r := NewReconstructor()

	var txs []domain.RawTransaction
	for i := 0; i < 50; i++ {
		txs = append(txs, dexTx(fmt.Sprintf("s%d", i), RaydiumAMMV4,
			transfer(testWallet, otherParty, registry.SOLMint, uint64(i+1)*100_000_000),
			transfer(otherParty, testWallet, tokenXMint, 1_000_000_000),
		))
	}

	first := r.ReconstructBatch(txs, testWallet)
	for run := 0; run < 5; run++ {
		if got := r.ReconstructBatch(txs, testWallet); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged from first run", run)
		}
	}
}
