package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SharathChampzz/Community-Streak/internal/types/event"
)

type pgEventStore struct {
	db *pgxpool.Pool
}

func (s *pgEventStore) Create(ctx context.Context, e *event.Event, props []event.Prop) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
	INSERT INTO events (id, name, description, created_by, is_private, flags, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := tx.Exec(ctx, query, e.ID, e.Name, e.Description, e.CreatedBy, e.IsPrivate, e.Flags, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	for _, p := range props {
		_, err := tx.Exec(ctx, `
		INSERT INTO event_props (id, event_id, prop_name, prop_value, created_at)
		VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), e.ID, p.Name, p.Value, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to create event prop: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *pgEventStore) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	query := `
	SELECT id, name, description, created_by, is_private, flags, created_at
	FROM events
	WHERE id = $1
	`

	e := &event.Event{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.CreatedBy,
		&e.IsPrivate,
		&e.Flags,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

func (s *pgEventStore) List(ctx context.Context, flags string) ([]event.Event, error) {
	query := `
	SELECT id, name, description, created_by, is_private, flags, created_at
	FROM events
	`
	args := []any{}
	if flags != "" {
		query += ` WHERE flags = $1`
		args = append(args, flags)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *pgEventStore) ListByCreator(ctx context.Context, userID uuid.UUID) ([]event.Event, error) {
	query := `
	SELECT id, name, description, created_by, is_private, flags, created_at
	FROM events
	WHERE created_by = $1
	ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list created events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *pgEventStore) PropsFor(ctx context.Context, eventID uuid.UUID) ([]event.Prop, error) {
	rows, err := s.db.Query(ctx, `SELECT prop_name, prop_value FROM event_props WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query event props: %w", err)
	}
	defer rows.Close()

	props := []event.Prop{}
	for rows.Next() {
		var p event.Prop
		if err := rows.Scan(&p.Name, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan event prop: %w", err)
		}
		props = append(props, p)
	}

	return props, rows.Err()
}

func scanEvents(rows pgx.Rows) ([]event.Event, error) {
	var events []event.Event
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedBy, &e.IsPrivate, &e.Flags, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
