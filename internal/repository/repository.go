package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rotaworks-dev/staffhub/backend/internal/config"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// conflictOn translates a unique-constraint violation on the named constraint
// into a domain conflict. Uniqueness rules (one open entry per staff, one
// pending request per shift and requester) live in the database so they hold
// under concurrency; this is where they surface as typed errors.
func conflictOn(err error, constraint string, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == constraint {
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	}
	return err
}

// IsUniqueViolation reports whether err is a violation of the named
// constraint, for callers that want to ignore it rather than surface it.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == constraint
}
