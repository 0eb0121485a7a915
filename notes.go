package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func (s *Store) Notes(ctx context.Context) ([]Note, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT id, title, details, created_at, updated_at FROM notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var note Note
		var createdAt int64
		var updatedAt sql.NullInt64
		if err := rows.Scan(&note.ID, &note.Title, &note.Details, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		note.CreatedAt = unixToTime(createdAt)
		note.UpdatedAt = unixToTime(updatedAt.Int64)
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (s *Store) InsertNote(ctx context.Context, title string, details string) (Note, error) {
	if err := validateNote(title, details); err != nil {
		return Note{}, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return Note{}, err
	}
	defer conn.Close()

	now := time.Now().UTC()
	result, err := conn.ExecContext(ctx, `INSERT INTO notes (title, details, created_at) VALUES (?, ?, ?)`,
		strings.TrimSpace(title), details, timeToUnix(now))
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}
	return Note{ID: id, Title: strings.TrimSpace(title), Details: details, CreatedAt: now}, nil
}

func (s *Store) UpdateNote(ctx context.Context, id int64, title string, details string) error {
	if err := validateNote(title, details); err != nil {
		return err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	now := time.Now().UTC()
	result, err := conn.ExecContext(ctx, `UPDATE notes SET title = ?, details = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(title), details, timeToUnix(now), id)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if affected == 0 {
		return errors.New("note not found")
	}
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// SearchNotes matches a case-insensitive substring against title or details.
func (s *Store) SearchNotes(ctx context.Context, query string) ([]Note, error) {
	notes, err := s.Notes(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return notes, nil
	}
	matched := []Note{}
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), needle) || strings.Contains(strings.ToLower(note.Details), needle) {
			matched = append(matched, note)
		}
	}
	return matched, nil
}

func validateNote(title string, details string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("note title cannot be empty")
	}
	if strings.TrimSpace(details) == "" {
		return errors.New("note details cannot be empty")
	}
	return nil
}
