// cmd/taxnews/aggregator.go
package main

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Aggregator fans the fetcher out over the source registry, classifies
// every entry and merges the per-source results into one ordered list.
type Aggregator struct {
	fetcher      *Fetcher
	classifier   *Classifier
	fetchTimeout time.Duration
	semaphore    chan struct{}
}

// NewAggregator creates a new aggregator instance
func NewAggregator(fetcher *Fetcher, classifier *Classifier, fetchTimeout time.Duration, maxConcurrent int) *Aggregator {
	return &Aggregator{
		fetcher:      fetcher,
		classifier:   classifier,
		fetchTimeout: fetchTimeout,
		semaphore:    make(chan struct{}, maxConcurrent),
	}
}

// Run fetches all sources concurrently, waits for every fetch to finish
// (success or isolated failure) and returns the merged result sorted by
// publish time descending. The sort is stable: for equal timestamps the
// registry order and the per-source entry order are preserved, so two
// runs over identical inputs produce identical output.
func (a *Aggregator) Run(ctx context.Context, sources []Source) []NewsItem {
	perSource := make([][]NewsItem, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			defer RecoverFromPanic("fetch-" + src.ID)

			select {
			case a.semaphore <- struct{}{}:
				defer func() { <-a.semaphore }()
			case <-ctx.Done():
				return
			}

			fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
			defer cancel()

			raw, err := a.fetcher.Fetch(fetchCtx, src)
			if err != nil {
				Logger().Warning("fetch %s failed: %v", src.ID, err)
				appState.RecordSourceError(src.ID, err)
				return
			}

			items := make([]NewsItem, 0, len(raw))
			for _, r := range raw {
				items = append(items, a.classifier.Classify(r, src))
			}
			perSource[i] = items
			Logger().Debug("fetched %d items from %s", len(items), src.ID)
		}(i, src)
	}

	// Join barrier: no partial merge is ever observed
	wg.Wait()

	var merged []NewsItem
	for _, items := range perSource {
		merged = append(merged, items...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	return merged
}
