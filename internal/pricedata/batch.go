package pricedata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// BatchFetcher shards very large item-id lists into a bounded number of
// round trips executed by a rate-limited worker pool. Fan-out callers
// (bulk optimization, alert scans) should go through it instead of issuing
// one read per item.
type BatchFetcher struct {
	source    Source
	workers   int
	chunkSize int
	limiter   *rate.Limiter
}

// BatchConfig holds configuration for the batch fetcher.
type BatchConfig struct {
	Workers   int        // concurrent round trips, default 4
	ChunkSize int        // item ids per round trip, default 100
	RateLimit rate.Limit // round trips per second, default 5
}

func NewBatchFetcher(source Source, config BatchConfig) *BatchFetcher {
	workers := config.Workers
	if workers <= 0 {
		workers = 4
	}
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 100
	}
	limit := config.RateLimit
	if limit == 0 {
		limit = rate.Limit(5)
	}
	return &BatchFetcher{
		source:    source,
		workers:   workers,
		chunkSize: chunkSize,
		limiter:   rate.NewLimiter(limit, workers),
	}
}

// Fetch retrieves the valid points for every requested item. Results are
// merged and re-sorted by item id then date so the output is independent of
// chunk completion order.
func (f *BatchFetcher) Fetch(ctx context.Context, itemIDs []string, since time.Time) ([]model.PricePoint, error) {
	if len(itemIDs) <= f.chunkSize {
		return f.source.FetchValidPricePoints(itemIDs, since)
	}

	var chunks [][]string
	for start := 0; start < len(itemIDs); start += f.chunkSize {
		end := start + f.chunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		chunks = append(chunks, itemIDs[start:end])
	}

	jobs := make(chan []string, len(chunks))
	results := make(chan []model.PricePoint, len(chunks))
	errs := make(chan error, len(chunks))

	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				if err := f.limiter.Wait(ctx); err != nil {
					errs <- err
					return
				}
				points, err := f.source.FetchValidPricePoints(chunk, since)
				if err != nil {
					errs <- fmt.Errorf("fetch chunk of %d items: %w", len(chunk), err)
					return
				}
				results <- points
			}
		}()
	}

	for _, chunk := range chunks {
		jobs <- chunk
	}
	close(jobs)
	wg.Wait()
	close(results)
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}

	var merged []model.PricePoint
	for points := range results {
		merged = append(merged, points...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].ItemID != merged[j].ItemID {
			return merged[i].ItemID < merged[j].ItemID
		}
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged, nil
}
