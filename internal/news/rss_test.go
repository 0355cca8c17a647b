package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Gazette Feed</title>
    <link>https://gazette.example</link>
    <item>
      <title>Major Earthquake Strikes Region</title>
      <link>https://gazette.example/quake</link>
      <description>A strong earthquake hit early on Friday.</description>
      <pubDate>Sun, 01 Jun 2025 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Central Bank Raises Interest Rates</title>
      <link>https://gazette.example/rates</link>
      <description>Rates rise again.</description>
    </item>
  </channel>
</rss>`

func TestRSSFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeedXML))
	}))
	defer srv.Close()

	f := NewRSSFetcher([]string{srv.URL})
	result, err := f.FetchAll(context.Background(), "general", 5)
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(result.Articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(result.Articles))
	}
	if len(result.Failed) != 0 {
		t.Fatalf("got %d failed feeds, want 0", len(result.Failed))
	}

	a := result.Articles[0]
	if a.Title != "Major Earthquake Strikes Region" {
		t.Errorf("title = %q", a.Title)
	}
	if a.SourceID != "Gazette Feed" || a.SourceName != "Gazette Feed" {
		t.Errorf("source = %q/%q, want the feed title", a.SourceID, a.SourceName)
	}
	if a.Country != "rss" {
		t.Errorf("country = %q, want rss", a.Country)
	}
	if a.Category != "general" {
		t.Errorf("category = %q, want general", a.Category)
	}
}

func TestRSSFetchAll_MaxPerFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeedXML))
	}))
	defer srv.Close()

	f := NewRSSFetcher([]string{srv.URL})
	result, err := f.FetchAll(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(result.Articles) != 1 {
		t.Fatalf("got %d articles, want the per-feed cap of 1", len(result.Articles))
	}
}

func TestRSSFetchAll_AbsorbsFeedFailure(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeedXML))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := NewRSSFetcher([]string{bad.URL, good.URL})
	result, err := f.FetchAll(context.Background(), "general", 5)
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	// The broken feed contributes zero articles but never sinks the batch.
	if len(result.Articles) != 2 {
		t.Fatalf("got %d articles, want 2 from the healthy feed", len(result.Articles))
	}
	if len(result.Failed) != 1 || result.Failed[0].Region != bad.URL {
		t.Fatalf("failed = %+v, want the broken feed URL recorded", result.Failed)
	}
}

func TestRSSFetchAll_NoFeedsConfigured(t *testing.T) {
	f := NewRSSFetcher(nil)

	result, err := f.FetchAll(context.Background(), "general", 5)
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(result.Articles) != 0 || len(result.Failed) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}
