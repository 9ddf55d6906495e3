package repository

import (
	"context"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

// EnsureOrganization creates the named organization if it does not exist yet
// and returns its row either way. Used at startup and by the seeder.
func (r *Repository) EnsureOrganization(name string) (*domain.Organization, error) {
	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	org := &domain.Organization{}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(&org.ID, &org.Name, &org.CreatedAt); err != nil {
		return nil, err
	}

	return org, nil
}
