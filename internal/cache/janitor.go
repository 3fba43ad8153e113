package cache

import (
	"context"
	"time"

	"ledger/internal/log"
)

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// RunCleanup calls CleanExpired on every cache at each interval until ctx
// is done.
func RunCleanup(ctx context.Context, interval time.Duration, caches ...Cleaner) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			total := 0
			for _, c := range caches {
				total += c.CleanExpired()
			}
			if total > 0 {
				log.FromContext(ctx).DebugContext(ctx, "Expired cache entries removed", "count", total)
			}
		}
	}
}
