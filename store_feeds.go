package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func (s *Store) Feeds(ctx context.Context) ([]Feed, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT id, title, url, last_synced_at, created_at FROM feeds ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	feeds := []Feed{}
	for rows.Next() {
		var feed Feed
		var lastSynced sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&feed.ID, &feed.Title, &feed.URL, &lastSynced, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feed: %w", err)
		}
		feed.LastSyncedAt = unixToTime(lastSynced.Int64)
		feed.CreatedAt = unixToTime(createdAt)
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

func (s *Store) InsertFeed(ctx context.Context, title string, url string) (Feed, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if url == "" {
		return Feed{}, errors.New("empty feed url")
	}
	if title == "" {
		title = url
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return Feed{}, err
	}
	defer conn.Close()

	now := time.Now().UTC()
	result, err := conn.ExecContext(ctx, `INSERT INTO feeds (title, url, created_at) VALUES (?, ?, ?)`,
		title, url, timeToUnix(now))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return Feed{}, errors.New("feed already exists")
		}
		return Feed{}, fmt.Errorf("insert feed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Feed{}, fmt.Errorf("insert feed: %w", err)
	}
	return Feed{ID: id, Title: title, URL: url, CreatedAt: now}, nil
}

func (s *Store) DeleteFeed(ctx context.Context, id int64) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Items go with the feed via the foreign key cascade.
	if _, err := conn.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	return nil
}

func (s *Store) UpdateLastSynced(ctx context.Context, id int64, t time.Time) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `UPDATE feeds SET last_synced_at = ? WHERE id = ?`, nullUnix(t), id); err != nil {
		return fmt.Errorf("update last synced: %w", err)
	}
	return nil
}

// InsertItemIfAbsent is the dedup primitive: it attempts an insert keyed on
// dedup_key and reports whether a new row was actually created. Re-ingesting
// the same remote entry is a no-op.
func (s *Store) InsertItemIfAbsent(ctx context.Context, item FeedItem) (bool, error) {
	if strings.TrimSpace(item.DedupKey) == "" {
		return false, errors.New("empty dedup key")
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	result, err := conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO feed_items (feed_id, title, link, description, published_at, dedup_key, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.FeedID, item.Title, item.Link, item.Description, timeToUnix(item.PublishedAt), item.DedupKey, timeToUnix(item.CreatedAt))
	if err != nil {
		return false, fmt.Errorf("insert feed item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert feed item: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) ItemsForFeed(ctx context.Context, feedID int64) ([]FeedItem, error) {
	return s.queryItems(ctx, `SELECT id, feed_id, title, link, description, published_at, dedup_key, created_at
FROM feed_items WHERE feed_id = ? ORDER BY published_at DESC`, feedID)
}

func (s *Store) RecentItems(ctx context.Context, limit int) ([]FeedItem, error) {
	return s.queryItems(ctx, `SELECT id, feed_id, title, link, description, published_at, dedup_key, created_at
FROM feed_items ORDER BY published_at DESC LIMIT ?`, limit)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]FeedItem, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feed items: %w", err)
	}
	defer rows.Close()

	items := []FeedItem{}
	for rows.Next() {
		var item FeedItem
		var published, createdAt sql.NullInt64
		if err := rows.Scan(&item.ID, &item.FeedID, &item.Title, &item.Link, &item.Description, &published, &item.DedupKey, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feed item: %w", err)
		}
		item.PublishedAt = unixToTime(published.Int64)
		item.CreatedAt = unixToTime(createdAt.Int64)
		items = append(items, item)
	}
	return items, rows.Err()
}
