package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use, compatible with
// pgxmock for tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// EventRepositoryInterface defines operations for event data access
type EventRepositoryInterface interface {
	Insert(ctx context.Context, draft domain.EventDraft) (*domain.Event, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Event, error)
	ListByType(ctx context.Context, eventType domain.EventType) ([]domain.Event, error)
}
