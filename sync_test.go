package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// routingClient serves a different body per request URL, so multi-feed sync
// tests can mix healthy and broken feeds.
type routingClient struct {
	responses map[string]string
}

func (c *routingClient) client() *http.Client {
	return &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		body, ok := c.responses[r.URL.String()]
		if !ok {
			return newResponse(http.StatusNotFound, "missing", nil, r), nil
		}
		return newResponse(http.StatusOK, body, nil, r), nil
	})}
}

func rssWithItems(guids ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>T</title>`)
	for _, guid := range guids {
		fmt.Fprintf(&sb, `<item><title>Post %s</title><link>https://example.com/%s</link><guid>%s</guid></item>`, guid, guid, guid)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func TestSyncFeedIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed, err := store.InsertFeed(ctx, "One", "https://example.com/rss")
	if err != nil {
		t.Fatalf("InsertFeed error: %v", err)
	}

	rec := &recordingClient{status: http.StatusOK, body: rssWithItems("a", "b", "c")}
	syncer := NewSyncer(store, &FeedFetcher{client: rec.client()})

	added, err := syncer.SyncFeed(ctx, feed)
	if err != nil {
		t.Fatalf("SyncFeed error: %v", err)
	}
	if added != 3 {
		t.Fatalf("expected 3 new items, got %d", added)
	}

	added, err = syncer.SyncFeed(ctx, feed)
	if err != nil {
		t.Fatalf("second SyncFeed error: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected repeat sync to add nothing, got %d", added)
	}
	items, err := store.ItemsForFeed(ctx, feed.ID)
	if err != nil {
		t.Fatalf("ItemsForFeed error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 stored items, got %d", len(items))
	}
}

func TestSyncFeedOnlyNewItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed, err := store.InsertFeed(ctx, "One", "https://example.com/rss")
	if err != nil {
		t.Fatalf("InsertFeed error: %v", err)
	}
	for _, guid := range []string{"a", "b"} {
		if _, err := store.InsertItemIfAbsent(ctx, FeedItem{FeedID: feed.ID, Title: "Old", DedupKey: guid}); err != nil {
			t.Fatalf("seed item error: %v", err)
		}
	}

	rec := &recordingClient{status: http.StatusOK, body: rssWithItems("a", "b", "c")}
	syncer := NewSyncer(store, &FeedFetcher{client: rec.client()})

	added, err := syncer.SyncFeed(ctx, feed)
	if err != nil {
		t.Fatalf("SyncFeed error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected only the unseen item, got %d", added)
	}
	items, err := store.ItemsForFeed(ctx, feed.ID)
	if err != nil {
		t.Fatalf("ItemsForFeed error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 stored items, got %d", len(items))
	}
}

func TestSyncFeedUpdatesLastSynced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	feed, err := store.InsertFeed(ctx, "One", "https://example.com/rss")
	if err != nil {
		t.Fatalf("InsertFeed error: %v", err)
	}

	rec := &recordingClient{status: http.StatusOK, body: rssWithItems("a")}
	syncer := NewSyncer(store, &FeedFetcher{client: rec.client()})
	if _, err := syncer.SyncFeed(ctx, feed); err != nil {
		t.Fatalf("SyncFeed error: %v", err)
	}

	feeds, err := store.Feeds(ctx)
	if err != nil {
		t.Fatalf("Feeds error: %v", err)
	}
	if feeds[0].LastSyncedAt.IsZero() {
		t.Fatalf("expected last synced to be set")
	}
}

func TestSyncAllFeedsPartialFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.InsertFeed(ctx, "Good", "https://example.com/good"); err != nil {
		t.Fatalf("InsertFeed error: %v", err)
	}
	if _, err := store.InsertFeed(ctx, "Broken", "https://example.com/broken"); err != nil {
		t.Fatalf("InsertFeed error: %v", err)
	}

	routes := &routingClient{responses: map[string]string{
		"https://example.com/good": rssWithItems("x", "y"),
	}}
	syncer := NewSyncer(store, &FeedFetcher{client: routes.client()})

	summary := syncer.SyncAllFeeds(ctx)
	if summary.FeedsTried != 2 {
		t.Fatalf("expected 2 feeds tried, got %d", summary.FeedsTried)
	}
	if summary.ItemsAdded != 2 {
		t.Fatalf("expected 2 items from the healthy feed, got %d", summary.ItemsAdded)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(summary.Errors))
	}
	if summary.Errors[0].FeedTitle != "Broken" {
		t.Fatalf("expected error attributed to broken feed, got %q", summary.Errors[0].FeedTitle)
	}
	if !strings.Contains(summary.Describe(), "1 errors") {
		t.Fatalf("unexpected summary: %s", summary.Describe())
	}
}

func TestSyncSummaryDescribe(t *testing.T) {
	clean := SyncSummary{FeedsTried: 3, ItemsAdded: 7}
	if got := clean.Describe(); got != "refreshed 3 feeds, 7 new items" {
		t.Fatalf("unexpected describe: %q", got)
	}
}
