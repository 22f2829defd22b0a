package validator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
)

const defaultMaxConcurrent = 5

// Coordinator validates sets of URLs with bounded concurrency. At most
// one batch's cancellation token is current: starting a new batch
// cancels any still-running previous one without awaiting its teardown.
type Coordinator struct {
	validator     *Validator
	maxConcurrent int
	logger        *zap.Logger

	mu      sync.Mutex
	current *batchRun
}

type batchRun struct {
	cancel context.CancelFunc
}

func NewCoordinator(v *Validator, maxConcurrent int, logger *zap.Logger) *Coordinator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Coordinator{validator: v, maxConcurrent: maxConcurrent, logger: logger}
}

// ValidateBatch deduplicates urls and validates the unique set in
// consecutive windows of maxConcurrent; validators within a window run
// concurrently, windows run sequentially. Cancellation mid-batch stops
// launching new windows and returns the outcomes gathered so far;
// partial completion is a valid terminal state, never an error. An
// empty input returns immediately without touching anything.
func (c *Coordinator) ValidateBatch(ctx context.Context, urls []string) []domain.ValidationOutcome {
	if len(urls) == 0 {
		return []domain.ValidationOutcome{}
	}

	unique := dedupe(urls)

	runCtx, cancel := context.WithCancel(ctx)
	run := &batchRun{cancel: cancel}
	c.mu.Lock()
	if c.current != nil {
		c.current.cancel()
	}
	c.current = run
	c.mu.Unlock()
	defer func() {
		cancel()
		c.mu.Lock()
		if c.current == run {
			c.current = nil
		}
		c.mu.Unlock()
	}()

	c.logger.Debug("starting batch",
		zap.Int("urls", len(urls)),
		zap.Int("unique", len(unique)),
		zap.Int("max_concurrent", c.maxConcurrent))

	results := make([]domain.ValidationOutcome, 0, len(unique))
	for start := 0; start < len(unique); start += c.maxConcurrent {
		if runCtx.Err() != nil {
			c.logger.Info("batch cancelled, returning partial results",
				zap.Int("completed", len(results)),
				zap.Int("total", len(unique)))
			break
		}

		window := unique[start:min(start+c.maxConcurrent, len(unique))]
		outcomes := make([]domain.ValidationOutcome, len(window))
		var wg sync.WaitGroup
		for i, u := range window {
			wg.Add(1)
			go func(i int, u string) {
				defer wg.Done()
				outcomes[i] = c.validator.Validate(runCtx, u)
			}(i, u)
		}
		wg.Wait()
		results = append(results, outcomes...)
	}
	return results
}

// Cancel aborts any in-flight batch without waiting for its teardown.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.cancel()
	}
}

// dedupe keeps the first occurrence of each URL, preserving order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}
