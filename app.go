package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// App wires the store, the ingestion pipeline, the background scheduler and
// the shared view state together. The render loop talks only to App.
type App struct {
	config    Config
	store     *Store
	fetcher   *FeedFetcher
	syncer    *Syncer
	assistant *Assistant
	views     *ViewState
	scheduler *Scheduler
}

func NewApp(cfg Config) (*App, error) {
	store, err := NewStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	fetcher := NewFeedFetcher()
	app := &App{
		config:    cfg,
		store:     store,
		fetcher:   fetcher,
		syncer:    NewSyncer(store, fetcher),
		assistant: NewAssistant(cfg.AssistantURL, cfg.AssistantModel),
		views:     NewViewState(),
	}
	interval := time.Duration(cfg.SyncIntervalSeconds) * time.Second
	app.scheduler = NewScheduler(interval, func(ctx context.Context) {
		app.SyncNow(ctx)
	})
	return app, nil
}

func (a *App) StartScheduler(ctx context.Context) {
	a.scheduler.Start(ctx)
}

func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("store close failed", "err", err)
	}
}

// SyncNow runs one full sync cycle: every feed once, the outcome recorded in
// the log store, and the affected views marked stale regardless of outcome.
func (a *App) SyncNow(ctx context.Context) SyncSummary {
	summary := a.syncer.SyncAllFeeds(ctx)
	level := "INFO"
	if len(summary.Errors) > 0 {
		level = "ERROR"
	}
	if err := a.store.AddLog(ctx, level, summary.Describe()); err != nil {
		slog.Warn("record sync log failed", "err", err)
	}
	a.views.MarkStale(ViewFeeds)
	a.views.MarkStale(ViewLogs)
	return summary
}

func (a *App) AddFeed(ctx context.Context, rawURL string) (Feed, error) {
	normalized, err := normalizeFeedURL(rawURL)
	if err != nil {
		return Feed{}, err
	}
	feed, err := a.store.InsertFeed(ctx, "", normalized)
	if err != nil {
		return Feed{}, err
	}
	if added, err := a.syncer.SyncFeed(ctx, feed); err != nil {
		slog.Warn("initial feed sync failed", "feed_url", feed.URL, "err", err)
	} else {
		slog.Info("feed added", "feed_url", feed.URL, "items_new", added)
	}
	a.views.MarkStale(ViewFeeds)
	return feed, nil
}

func (a *App) DeleteFeed(ctx context.Context, id int64) error {
	if err := a.store.DeleteFeed(ctx, id); err != nil {
		return err
	}
	a.views.MarkStale(ViewFeeds)
	return nil
}

func (a *App) ImportOPML(ctx context.Context, path string) (int, error) {
	feeds, err := ParseOPML(path)
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, feed := range feeds {
		normalized, err := normalizeFeedURL(feed.URL)
		if err != nil {
			continue
		}
		if _, err := a.store.InsertFeed(ctx, feed.Title, normalized); err != nil {
			continue
		}
		imported++
	}
	if imported == 0 {
		return 0, fmt.Errorf("no new feeds imported from %s", path)
	}
	a.SyncNow(ctx)
	return imported, nil
}

func (a *App) ExportOPML(ctx context.Context, path string) error {
	feeds, err := a.store.Feeds(ctx)
	if err != nil {
		return err
	}
	return ExportOPML(path, feeds)
}

func (a *App) CreateNote(ctx context.Context, title string, details string) (Note, error) {
	note, err := a.store.InsertNote(ctx, title, details)
	if err != nil {
		return Note{}, err
	}
	a.views.MarkStale(ViewNotes)
	return note, nil
}

func (a *App) EditNote(ctx context.Context, id int64, title string, details string) error {
	if err := a.store.UpdateNote(ctx, id, title, details); err != nil {
		return err
	}
	a.views.MarkStale(ViewNotes)
	return nil
}

func (a *App) RemoveNote(ctx context.Context, id int64) error {
	if err := a.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	a.views.MarkStale(ViewNotes)
	return nil
}

func (a *App) AddBookmark(ctx context.Context, name string, location string) (Bookmark, error) {
	bookmark, err := a.store.InsertBookmark(ctx, name, location)
	if err != nil {
		return Bookmark{}, err
	}
	a.views.MarkStale(ViewBookmarks)
	return bookmark, nil
}

func (a *App) EditBookmark(ctx context.Context, id int64, name string, location string) error {
	if err := a.store.UpdateBookmark(ctx, id, name, location); err != nil {
		return err
	}
	a.views.MarkStale(ViewBookmarks)
	return nil
}

func (a *App) RemoveBookmark(ctx context.Context, id int64) error {
	if err := a.store.DeleteBookmark(ctx, id); err != nil {
		return err
	}
	a.views.MarkStale(ViewBookmarks)
	return nil
}

func (a *App) OpenBookmark(bookmark Bookmark) error {
	return defaultOpenPath(bookmark.Location)
}
