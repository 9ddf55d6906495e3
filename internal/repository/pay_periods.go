package repository

import (
	"context"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (r *Repository) GetPayPeriodByID(id int64) (*domain.PayPeriod, error) {
	query := `
		SELECT organization_id, name, start_date, end_date, pay_date, is_active
		FROM pay_periods WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	period := &domain.PayPeriod{
		ID: id,
	}

	dst := []any{&period.OrganizationID, &period.Name, &period.StartDate, &period.EndDate, &period.PayDate, &period.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return period, nil
}

func (r *Repository) GetAllPayPeriods(organizationID int64) ([]*domain.PayPeriod, error) {
	query := `
		SELECT id, name, start_date, end_date, pay_date, is_active
		FROM pay_periods WHERE organization_id = $1
		ORDER BY start_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]*domain.PayPeriod, 0)
	for rows.Next() {
		period := &domain.PayPeriod{OrganizationID: organizationID}
		dst := []any{&period.ID, &period.Name, &period.StartDate, &period.EndDate, &period.PayDate, &period.IsActive}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}

// CreatePayPeriod exists for seeding; the core treats pay periods as
// read-only reporting windows.
func (r *Repository) CreatePayPeriod(period *domain.PayPeriod) error {
	query := `
		INSERT INTO pay_periods (organization_id, name, start_date, end_date, pay_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{period.OrganizationID, period.Name, period.StartDate, period.EndDate, period.PayDate, period.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&period.ID); err != nil {
		return err
	}

	return nil
}
