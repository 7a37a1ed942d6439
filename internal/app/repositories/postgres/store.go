// Package postgres implements the repositories on PostgreSQL with pgx and squirrel.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/dberrors"
	"github.com/yigit/projectdesk/internal/pkg/logger"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a PostgreSQL repositories.Store
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
	sb   squirrel.StatementBuilderType
}

var _ repositories.Store = (*Store)(nil)

// NewStore wraps an open pool. The caller keeps ownership of migrations.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Users returns the user repository
func (s *Store) Users() repositories.UserRepository { return &userRepository{s: s} }

// Projects returns the project repository
func (s *Store) Projects() repositories.ProjectRepository { return &projectRepository{s: s} }

// Documents returns the document repository
func (s *Store) Documents() repositories.DocumentRepository { return &documentRepository{s: s} }

// Notifications returns the notification repository
func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{s: s}
}

// WithTransaction runs fn inside a database transaction
func (s *Store) WithTransaction(ctx context.Context, fn repositories.TxFunc) error {
	if s.inTx {
		return fn(ctx, s)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &Store{pool: s.pool, db: tx, inTx: true, sb: s.sb})
	})
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Name identifies the backend
func (s *Store) Name() string { return "postgres" }

// Close releases the pool
func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// writeError translates constraint violations and logs anything else
func writeError(err error, op string) error {
	if constraint := dberrors.DuplicateConstraint(err); constraint != "" {
		return repositories.DuplicateError(constraint)
	}
	logger.Error().Err(err).Str("op", op).Msg("Database write failed")
	return fmt.Errorf("error executing %s: %w", op, err)
}

// readError maps a missing row to notFound
func readError(err error, notFound error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	logger.Error().Err(err).Str("op", op).Msg("Database read failed")
	return fmt.Errorf("error executing %s: %w", op, err)
}

func buildError(err error, op string) error {
	logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
	return fmt.Errorf("failed to build %s query: %w", op, err)
}
