package swap

import (
	"runtime"
	"sync"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

// ReconstructBatch reconstructs swaps for a batch of transactions. Each
// transaction is independent, so the batch is fanned out across workers;
// results keep the input order with non-swaps compacted out, so the output
// is deterministic regardless of scheduling.
func (r *Reconstructor) ReconstructBatch(txs []domain.RawTransaction, wallet string) []domain.SwapEvent {
	if len(txs) == 0 {
		return nil
	}

	results := make([]*domain.SwapEvent, len(txs))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(txs) {
		workers = len(txs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ev, ok := r.Reconstruct(txs[i], wallet); ok {
					results[i] = ev
				}
			}
		}()
	}
	for i := range txs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	swaps := make([]domain.SwapEvent, 0, len(txs))
	for _, ev := range results {
		if ev != nil {
			swaps = append(swaps, *ev)
		}
	}
	return swaps
}
