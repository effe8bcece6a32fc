package engine

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// BatchItem is the outcome of one pipeline run within a batch.
type BatchItem struct {
	URL    string  `json:"url"`
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"error,omitempty"`
}

// ProcessBatch runs the pipeline serially over urls in input order,
// spacing runs by cfg.BatchDelay to respect the generation service's
// rate limit. A failed item is recorded and does not stop the batch;
// only context cancellation does.
func ProcessBatch(ctx context.Context, urls []string) []BatchItem {
	limiter := rate.NewLimiter(rate.Every(cfg.BatchDelay), 1)
	items := make([]BatchItem, 0, len(urls))

	for _, u := range urls {
		if err := limiter.Wait(ctx); err != nil {
			items = append(items, BatchItem{URL: u, Err: err.Error()})
			break
		}
		res, err := ProcessVideo(ctx, u)
		if err != nil {
			slog.Warn("batch item failed", slog.String("url", u), slog.Any("error", err))
			items = append(items, BatchItem{URL: u, Err: err.Error()})
			continue
		}
		items = append(items, BatchItem{URL: u, Result: &res})
	}
	return items
}
