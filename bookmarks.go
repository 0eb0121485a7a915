package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

func (s *Store) Bookmarks(ctx context.Context) ([]Bookmark, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT id, name, location, created_at FROM bookmarks ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []Bookmark{}
	for rows.Next() {
		var bookmark Bookmark
		var createdAt int64
		if err := rows.Scan(&bookmark.ID, &bookmark.Name, &bookmark.Location, &createdAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmark.CreatedAt = unixToTime(createdAt)
		bookmarks = append(bookmarks, bookmark)
	}
	return bookmarks, rows.Err()
}

func (s *Store) InsertBookmark(ctx context.Context, name string, location string) (Bookmark, error) {
	if err := validateBookmark(name, location); err != nil {
		return Bookmark{}, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return Bookmark{}, err
	}
	defer conn.Close()

	now := time.Now().UTC()
	result, err := conn.ExecContext(ctx, `INSERT INTO bookmarks (name, location, created_at) VALUES (?, ?, ?)`,
		strings.TrimSpace(name), strings.TrimSpace(location), timeToUnix(now))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return Bookmark{}, errors.New("bookmark already exists")
		}
		return Bookmark{}, fmt.Errorf("insert bookmark: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Bookmark{}, fmt.Errorf("insert bookmark: %w", err)
	}
	return Bookmark{ID: id, Name: strings.TrimSpace(name), Location: strings.TrimSpace(location), CreatedAt: now}, nil
}

func (s *Store) UpdateBookmark(ctx context.Context, id int64, name string, location string) error {
	if err := validateBookmark(name, location); err != nil {
		return err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, `UPDATE bookmarks SET name = ?, location = ? WHERE id = ?`,
		strings.TrimSpace(name), strings.TrimSpace(location), id)
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	if affected == 0 {
		return errors.New("bookmark not found")
	}
	return nil
}

func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

func validateBookmark(name string, location string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("bookmark name cannot be empty")
	}
	if strings.TrimSpace(location) == "" {
		return errors.New("bookmark location cannot be empty")
	}
	return nil
}
