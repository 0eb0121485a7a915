package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Syncer runs the feed ingestion pipeline: fetch, parse, dedup-insert,
// timestamp. It is driven by the background scheduler and by explicit user
// refresh.
type Syncer struct {
	store   *Store
	fetcher *FeedFetcher
}

func NewSyncer(store *Store, fetcher *FeedFetcher) *Syncer {
	return &Syncer{store: store, fetcher: fetcher}
}

type FeedSyncError struct {
	FeedID    int64
	FeedTitle string
	Err       error
}

type SyncSummary struct {
	FeedsTried int
	ItemsAdded int
	Errors     []FeedSyncError
}

func (s SyncSummary) Describe() string {
	if len(s.Errors) == 0 {
		return fmt.Sprintf("refreshed %d feeds, %d new items", s.FeedsTried, s.ItemsAdded)
	}
	failed := make([]string, 0, len(s.Errors))
	for _, fail := range s.Errors {
		failed = append(failed, fmt.Sprintf("%s: %v", fail.FeedTitle, fail.Err))
	}
	return fmt.Sprintf("refreshed %d feeds with %d errors, %d new items (%s)",
		s.FeedsTried, len(s.Errors), s.ItemsAdded, strings.Join(failed, "; "))
}

// SyncFeed ingests one feed and returns how many entries were newly stored.
// Entries whose dedup key is already present count as zero. The feed's
// last-synced timestamp is updated whenever ingestion ran to completion.
func (sy *Syncer) SyncFeed(ctx context.Context, feed Feed) (int, error) {
	items, err := sy.fetcher.FetchItems(feed.URL)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, item := range items {
		item.FeedID = feed.ID
		inserted, err := sy.store.InsertItemIfAbsent(ctx, item)
		if err != nil {
			slog.Warn("skip feed item", "feed_id", feed.ID, "dedup_key", item.DedupKey, "err", err)
			continue
		}
		if inserted {
			added++
		}
	}

	if err := sy.store.UpdateLastSynced(ctx, feed.ID, time.Now().UTC()); err != nil {
		return added, err
	}
	return added, nil
}

// SyncAllFeeds walks every subscribed feed sequentially. One feed failing
// never prevents the rest from being attempted; failures are collected into
// the summary instead.
func (sy *Syncer) SyncAllFeeds(ctx context.Context) SyncSummary {
	summary := SyncSummary{}
	feeds, err := sy.store.Feeds(ctx)
	if err != nil {
		summary.Errors = append(summary.Errors, FeedSyncError{Err: fmt.Errorf("list feeds: %w", err)})
		return summary
	}

	for _, feed := range feeds {
		summary.FeedsTried++
		added, err := sy.SyncFeed(ctx, feed)
		summary.ItemsAdded += added
		if err != nil {
			summary.Errors = append(summary.Errors, FeedSyncError{FeedID: feed.ID, FeedTitle: feed.Title, Err: err})
			slog.Error("sync feed failed", "feed_id", feed.ID, "feed_url", feed.URL, "err", err)
			continue
		}
		slog.Info("sync feed done", "feed_id", feed.ID, "feed_url", feed.URL, "items_new", added)
	}
	return summary
}
