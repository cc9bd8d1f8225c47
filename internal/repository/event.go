package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

// EventRepository is append-only storage for classified events. Insert is the
// only write; events are never updated or deleted.
type EventRepository struct {
	pool PgxPool
}

func NewEventRepository(pool PgxPool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Insert persists a draft, assigning its id here and its timestamp at the
// database. One statement, atomic per call.
func (r *EventRepository) Insert(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	query := `
		INSERT INTO events (id, type, image_path, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	event := domain.Event{
		ID:        uuid.New(),
		Type:      draft.Type,
		ImagePath: draft.ImagePath,
	}

	err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.Type,
		event.ImagePath,
	).Scan(&event.Timestamp)

	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return &event, nil
}

// ListAll returns every event, newest first.
func (r *EventRepository) ListAll(ctx context.Context) ([]domain.Event, error) {
	query := `
		SELECT id, type, image_path, created_at
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListLatest returns the newest limit events.
func (r *EventRepository) ListLatest(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `
		SELECT id, type, image_path, created_at
		FROM events
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByType returns all events of one type, newest first.
func (r *EventRepository) ListByType(ctx context.Context, eventType domain.EventType) ([]domain.Event, error) {
	query := `
		SELECT id, type, image_path, created_at
		FROM events
		WHERE type = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventType)
	if err != nil {
		return nil, fmt.Errorf("list events by type: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.ImagePath, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
