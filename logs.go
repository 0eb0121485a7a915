package main

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (s *Store) AddLog(ctx context.Context, level string, message string) error {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "" {
		level = "INFO"
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `INSERT INTO logs (level, message, timestamp) VALUES (?, ?, ?)`,
		level, message, timeToUnix(time.Now().UTC())); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (s *Store) RecentLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT id, level, message, timestamp FROM logs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	entries := []LogEntry{}
	for rows.Next() {
		var entry LogEntry
		var ts int64
		if err := rows.Scan(&entry.ID, &entry.Level, &entry.Message, &ts); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entry.Timestamp = unixToTime(ts)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
