package cache

import (
	"context"

	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
)

// ResultCache stores the last known validation outcome per URL for a
// bounded time. Backends must support concurrent per-key access; a
// stale entry is never returned.
type ResultCache interface {
	// Get returns the cached outcome if present and fresh. Expired
	// entries are evicted on read; a miss has no side effect.
	Get(ctx context.Context, url string) (domain.ValidationOutcome, bool)
	// Set inserts or overwrites the outcome for a URL, stamping the
	// current time.
	Set(ctx context.Context, url string, outcome domain.ValidationOutcome)
	// Cleanup evicts every entry older than the TTL, independent of
	// access. Intended to run on a fixed external period.
	Cleanup(ctx context.Context)
	// Clear evicts everything unconditionally.
	Clear(ctx context.Context)
}
