package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rssWithItems(items ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>t</title>`
	for _, it := range items {
		body += it
	}
	return body + `</channel></rss>`
}

func rssItem(guid, title, pubDate string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>https://example.com/%s</link><guid>%s</guid><pubDate>%s</pubDate></item>`,
		title, guid, guid, pubDate)
}

func testAggregator() *Aggregator {
	return NewAggregator(NewFetcher(DefaultUserAgent), testClassifier(), 5*time.Second, MaxConcurrentFeeds)
}

func TestRunIsolatesFailingSource(t *testing.T) {
	// Source A: three items with descending timestamps
	srvA := feedServer(t, rssWithItems(
		rssItem("a1", "Πρώτο", "Mon, 02 Jan 2023 12:00:00 +0000"),
		rssItem("a2", "Δεύτερο", "Mon, 02 Jan 2023 11:00:00 +0000"),
		rssItem("a3", "Τρίτο", "Mon, 02 Jan 2023 10:00:00 +0000"),
	))
	// Source B: fails entirely
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srvB.Close()

	sources := []Source{
		{ID: "a", Name: "A", URL: srvA.URL, Category: "tax", Priority: PriorityMedium},
		{ID: "b", Name: "B", URL: srvB.URL, Category: "tax", Priority: PriorityMedium},
	}

	items := testAggregator().Run(context.Background(), sources)

	if len(items) != 3 {
		t.Fatalf("expected 3 items from the healthy source, got %d", len(items))
	}
	for i, want := range []string{"a::a1", "a::a2", "a::a3"} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, want)
		}
	}
}

func TestRunSortsDescendingByPublishedAt(t *testing.T) {
	// Newest entries deliberately placed last in the feed
	srv := feedServer(t, rssWithItems(
		rssItem("old", "Παλιό", "Sun, 01 Jan 2023 08:00:00 +0000"),
		rssItem("new", "Νέο", "Mon, 02 Jan 2023 18:00:00 +0000"),
		rssItem("mid", "Μεσαίο", "Mon, 02 Jan 2023 09:00:00 +0000"),
	))

	items := testAggregator().Run(context.Background(), []Source{
		{ID: "s", Name: "S", URL: srv.URL},
	})

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].PublishedAt.After(items[i-1].PublishedAt) {
			t.Errorf("items not sorted descending at index %d", i)
		}
	}
	if items[0].ID != "s::new" || items[2].ID != "s::old" {
		t.Errorf("unexpected order: %s, %s, %s", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestRunStableForEqualTimestamps(t *testing.T) {
	const stamp = "Mon, 02 Jan 2023 10:00:00 +0000"
	srvA := feedServer(t, rssWithItems(
		rssItem("a1", "A1", stamp),
		rssItem("a2", "A2", stamp),
	))
	srvB := feedServer(t, rssWithItems(
		rssItem("b1", "B1", stamp),
		rssItem("b2", "B2", stamp),
	))

	sources := []Source{
		{ID: "a", Name: "A", URL: srvA.URL},
		{ID: "b", Name: "B", URL: srvB.URL},
	}

	agg := testAggregator()
	items := agg.Run(context.Background(), sources)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	// Registry order and per-source entry order survive the sort
	want := []string{"a::a1", "a::a2", "b::b1", "b::b2"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestRunClassifiesItems(t *testing.T) {
	srv := feedServer(t, rssWithItems(
		rssItem("p1", "Πρόστιμο από την εφορία", "Mon, 02 Jan 2023 10:00:00 +0000"),
	))

	items := testAggregator().Run(context.Background(), []Source{
		{ID: "s", Name: "S", URL: srv.URL, Category: "tax", Priority: PriorityLow},
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Priority != PriorityHigh {
		t.Errorf("expected computed high priority, got %s", items[0].Priority)
	}
	if len(items[0].Tags) == 0 || items[0].Tags[0] != "φορολογικά" {
		t.Errorf("expected φορολογικά tag, got %v", items[0].Tags)
	}
}

func TestRunEmptyRegistry(t *testing.T) {
	items := testAggregator().Run(context.Background(), nil)
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}
