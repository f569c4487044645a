// cmd/taxnews/fetcher.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// Fetcher retrieves and parses one feed into raw items. A failure for
// one source never aborts the overall cycle: the caller absorbs the
// error, logs a warning and treats the source as empty for the cycle.
type Fetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	firstSeen map[string]time.Time
}

// NewFetcher creates a new feed fetcher instance
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:      100,
				IdleConnTimeout:   90 * time.Second,
				MaxConnsPerHost:   10,
				ForceAttemptHTTP2: true,
			},
		},
		parser:    gofeed.NewParser(),
		userAgent: userAgent,
		limiters:  make(map[string]*rate.Limiter),
		firstSeen: make(map[string]time.Time),
	}
}

// Fetch retrieves one source and converts its entries to raw items.
// The caller controls the deadline through ctx; a slow source times out
// in isolation without stalling the rest of the cycle.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]RawItem, error) {
	if err := f.limiterFor(src.ID).Wait(ctx); err != nil {
		return nil, NewFetchError(ErrFetchRequest, fmt.Sprintf("rate limit wait for %s", src.ID), err)
	}

	feed, err := f.fetchFeed(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(feed.Items))
	live := make(map[string]bool, len(feed.Items))
	for _, entry := range feed.Items {
		raw, ok := f.convertEntry(entry, src)
		if !ok {
			continue
		}
		items = append(items, raw)
		live[raw.ID] = true
	}

	f.pruneFirstSeen(src.ID, live)
	return items, nil
}

// fetchFeed retrieves and parses an RSS/Atom document
func (f *Fetcher) fetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewFetchError(ErrFetchRequest, "failed to create request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewFetchError(ErrFetchRequest, "failed to fetch feed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewFetchError(ErrFetchStatus, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedBodyBytes))
	if err != nil {
		return nil, NewFetchError(ErrFetchRequest, "failed to read response", err)
	}

	feed, err := f.parser.ParseString(string(body))
	if err != nil {
		return nil, NewFetchError(ErrFetchParse, "failed to parse feed", err)
	}
	return feed, nil
}

// convertEntry normalizes one feed entry. Entries with neither guid nor
// link carry no stable identity and are dropped.
func (f *Fetcher) convertEntry(entry *gofeed.Item, src Source) (RawItem, bool) {
	key := entry.GUID
	if key == "" {
		key = entry.Link
	}
	if key == "" {
		return RawItem{}, false
	}
	id := src.ID + itemIDSeparator + key

	content := htmlToText(entry.Content)
	summary := htmlToText(entry.Description)
	if summary == "" {
		summary = content
	}

	author := src.Name
	if entry.Author != nil && entry.Author.Name != "" {
		author = entry.Author.Name
	}

	return RawItem{
		ID:        id,
		Title:     strings.TrimSpace(entry.Title),
		Summary:   summary,
		Content:   content,
		Link:      entry.Link,
		GUID:      entry.GUID,
		Author:    author,
		Published: f.publishTime(entry, id),
	}, true
}

// publishTime resolves the publish timestamp for an entry. Feeds that
// omit timestamps get the time the entry was first observed, and that
// value stays stable across refreshes so the entry does not look newer
// on every cycle.
func (f *Fetcher) publishTime(entry *gofeed.Item, id string) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.firstSeen[id]; ok {
		return t
	}
	now := time.Now().UTC()
	f.firstSeen[id] = now
	return now
}

// pruneFirstSeen drops first-seen timestamps for entries the source no
// longer publishes, keeping the map bounded by current feed contents.
func (f *Fetcher) pruneFirstSeen(sourceID string, live map[string]bool) {
	prefix := sourceID + itemIDSeparator

	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.firstSeen {
		if strings.HasPrefix(id, prefix) && !live[id] {
			delete(f.firstSeen, id)
		}
	}
}

// limiterFor returns the per-source rate limiter, creating it on first
// use. One request per second with a single burst is far below any
// refresh cadence; the limiter exists to keep manual refresh storms
// from hammering a feed.
func (f *Fetcher) limiterFor(sourceID string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	limiter, ok := f.limiters[sourceID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Second), 1)
		f.limiters[sourceID] = limiter
	}
	return limiter
}

// htmlToText strips markup from feed-provided HTML fragments
func htmlToText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
