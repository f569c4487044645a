package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
<title>Test Feed</title>
<item>
  <title>Πρώτο άρθρο</title>
  <link>https://example.com/a</link>
  <guid>guid-a</guid>
  <description>&lt;p&gt;Περίληψη με &lt;strong&gt;HTML&lt;/strong&gt;&lt;/p&gt;</description>
  <dc:creator>Μαρία Π.</dc:creator>
  <pubDate>Mon, 02 Jan 2023 10:00:00 +0000</pubDate>
</item>
<item>
  <title>Χωρίς guid</title>
  <link>https://example.com/b</link>
  <content:encoded>&lt;p&gt;Μόνο περιεχόμενο&lt;/p&gt;</content:encoded>
  <pubDate>Mon, 02 Jan 2023 09:00:00 +0000</pubDate>
</item>
<item>
  <title>Χωρίς ταυτότητα</title>
  <description>Ούτε guid ούτε link</description>
</item>
</channel>
</rss>`

const noDateFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>No Dates</title>
<item>
  <title>Άρθρο χωρίς ημερομηνία</title>
  <link>https://example.com/nodate</link>
  <guid>guid-nodate</guid>
</item>
</channel>
</rss>`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchIdentityComposition(t *testing.T) {
	srv := feedServer(t, testFeedXML)
	f := NewFetcher(DefaultUserAgent)
	src := Source{ID: "test", Name: "Test Feed", URL: srv.URL}

	items, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	// Third entry has neither guid nor link and must be dropped
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "test::guid-a" {
		t.Errorf("expected guid-based id, got %q", items[0].ID)
	}
	if items[1].ID != "test::https://example.com/b" {
		t.Errorf("expected link-based id, got %q", items[1].ID)
	}
}

func TestFetchFieldFallbacks(t *testing.T) {
	srv := feedServer(t, testFeedXML)
	f := NewFetcher(DefaultUserAgent)
	src := Source{ID: "test", Name: "Test Feed", URL: srv.URL}

	items, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	first, second := items[0], items[1]

	// HTML is stripped from summaries
	if first.Summary != "Περίληψη με HTML" {
		t.Errorf("unexpected summary %q", first.Summary)
	}
	if strings.Contains(first.Summary, "<") {
		t.Errorf("summary still contains markup: %q", first.Summary)
	}

	// Feed-provided author wins, source name is the fallback
	if first.Author != "Μαρία Π." {
		t.Errorf("expected feed author, got %q", first.Author)
	}
	if second.Author != "Test Feed" {
		t.Errorf("expected source name fallback, got %q", second.Author)
	}

	// Missing description falls back to content
	if second.Summary != "Μόνο περιεχόμενο" {
		t.Errorf("expected summary from content, got %q", second.Summary)
	}
}

func TestFetchFirstSeenTimestampIsSticky(t *testing.T) {
	srv := feedServer(t, noDateFeedXML)
	f := NewFetcher(DefaultUserAgent)
	src := Source{ID: "nd", Name: "No Dates", URL: srv.URL}

	first, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("first Fetch() error: %v", err)
	}
	second, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("second Fetch() error: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 item per fetch, got %d and %d", len(first), len(second))
	}
	if !first[0].Published.Equal(second[0].Published) {
		t.Errorf("publish fallback must be stable across fetches: %v vs %v",
			first[0].Published, second[0].Published)
	}
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(DefaultUserAgent)
	_, err := f.Fetch(context.Background(), Source{ID: "bad", Name: "Bad", URL: srv.URL})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestFetchUnparsableBody(t *testing.T) {
	srv := feedServer(t, "this is not a feed")
	f := NewFetcher(DefaultUserAgent)
	_, err := f.Fetch(context.Background(), Source{ID: "junk", Name: "Junk", URL: srv.URL})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>απλό <b>κείμενο</b></p>", "απλό κείμενο"},
		{"χωρίς markup", "χωρίς markup"},
		{"", ""},
		{"  πολλά   κενά  ", "πολλά κενά"},
	}
	for _, tt := range tests {
		if got := htmlToText(tt.in); got != tt.want {
			t.Errorf("htmlToText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
