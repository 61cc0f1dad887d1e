package worker

import (
	"context"
	"log"
	"time"

	"country-voting/internal/cache"
	"country-voting/internal/metrics"
)

// CacheSweeper periodically sweeps expired cache entries and exports the live
// entry count. Reads still treat expired entries as absent on their own; the
// sweeper only bounds memory between reads.
type CacheSweeper struct {
	store    *cache.Store
	interval time.Duration
}

func NewCacheSweeper(store *cache.Store, interval time.Duration) *CacheSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheSweeper{store: store, interval: interval}
}

func (w *CacheSweeper) Run(ctx context.Context) {
	log.Println("cache sweeper started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("cache sweeper stopped")
			return
		case <-ticker.C:
			st := w.store.Stats()
			metrics.SetCacheEntries(st.Size)
			log.Printf("cache sweep: %d live entries", st.Size)
		}
	}
}
