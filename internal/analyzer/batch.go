package analyzer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"pageQualityGO/internal/config"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/scorer"
)

// BatchOptions contains configurable limits for the batch auditor
type BatchOptions struct {
	MaxConcurrent int64
	Delay         time.Duration
	MaxMemoryMB   int64
}

// DefaultBatchOptions returns sensible default options
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		MaxConcurrent: 5,
		Delay:         500 * time.Millisecond,
		MaxMemoryMB:   512,
	}
}

// BatchOptionsFromConfig maps the batch section of the application config
func BatchOptionsFromConfig(cfg config.BatchConfig) BatchOptions {
	return BatchOptions{
		MaxConcurrent: cfg.MaxConcurrent,
		Delay:         cfg.Delay,
		MaxMemoryMB:   cfg.MaxMemoryMB,
	}
}

// BatchItem is the outcome for one URL of a batch. Exactly one of Result and Error is set.
type BatchItem struct {
	URL    string                    `json:"url"`
	Signal *models.ScrapedPageSignal `json:"signal,omitempty"`
	Result *models.ScoreResult       `json:"result,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// BatchAuditor scrapes and scores several URLs concurrently
type BatchAuditor struct {
	analyzer    *Analyzer
	scorer      *scorer.Scorer
	logger      *slog.Logger
	limiter     *rate.Limiter
	maxWorkers  int
	semaphore   *semaphore.Weighted
	memoryBytes int64
}

// NewBatchAuditor creates a BatchAuditor. Non-positive options fall back to the defaults.
func NewBatchAuditor(a *Analyzer, s *scorer.Scorer, logger *slog.Logger, opts BatchOptions) *BatchAuditor {
	defaults := DefaultBatchOptions()
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaults.MaxConcurrent
	}
	if opts.MaxMemoryMB <= 0 {
		opts.MaxMemoryMB = defaults.MaxMemoryMB
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}

	memoryBytes := opts.MaxMemoryMB * 1024 * 1024
	return &BatchAuditor{
		analyzer:    a,
		scorer:      s,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Every(opts.Delay), 1),
		maxWorkers:  int(opts.MaxConcurrent),
		semaphore:   semaphore.NewWeighted(memoryBytes),
		memoryBytes: memoryBytes,
	}
}

// AuditURLs scrapes and scores every URL. Items keep the input order; a failed URL
// becomes an item error and never aborts the rest. Cancelling ctx fails the remaining URLs.
func (b *BatchAuditor) AuditURLs(ctx context.Context, urls []string, pageType models.PageType) []BatchItem {
	items := make([]BatchItem, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxWorkers)

	for i, rawURL := range urls {
		items[i].URL = rawURL

		g.Go(func() error {
			// Wait for rate limiter
			if err := b.limiter.Wait(ctx); err != nil {
				items[i].Error = "rate limiter error: " + err.Error()
				return nil
			}

			signal, err := b.analyzer.scrape(ctx, rawURL, pageType, b.reserve)
			if err != nil {
				b.logger.Warn("Batch audit failed", "url", rawURL, "error", err)
				items[i].Error = err.Error()
				return nil
			}

			items[i].Signal = signal
			items[i].Result = b.scorer.Score(signal, nil)
			return nil
		})
	}

	_ = g.Wait()

	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}
	b.logger.Info("Batch audit finished", "urls", len(urls), "failed", failed)
	return items
}

// reserve holds memory for parsing a page, estimated at five times its size
func (b *BatchAuditor) reserve(ctx context.Context, contentLength int64) (func(), error) {
	if contentLength <= 0 {
		contentLength = 1024 * 1024 // Assume 1MB if unknown
	}
	// Capped before scaling so a huge Content-Length cannot overflow
	estimated := min(min(contentLength, b.memoryBytes)*5, b.memoryBytes)

	if err := b.semaphore.Acquire(ctx, estimated); err != nil {
		return nil, err
	}
	return func() { b.semaphore.Release(estimated) }, nil
}
