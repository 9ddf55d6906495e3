package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (r *Repository) CreateShiftCategory(category *domain.ShiftCategory) error {
	query := `
		INSERT INTO shift_categories (organization_id, name, hourly_rate, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{category.OrganizationID, category.Name, category.HourlyRate, category.Color}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&category.ID, &category.CreatedAt, &category.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftCategoryByID(id int64) (*domain.ShiftCategory, error) {
	query := `
		SELECT organization_id, name, hourly_rate, color, created_at, version
		FROM shift_categories WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	category := &domain.ShiftCategory{
		ID: id,
	}

	dst := []any{&category.OrganizationID, &category.Name, &category.HourlyRate, &category.Color, &category.CreatedAt, &category.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return category, nil
}

func (r *Repository) GetAllShiftCategories(organizationID int64) ([]*domain.ShiftCategory, error) {
	query := `
		SELECT id, name, hourly_rate, color, created_at, version
		FROM shift_categories WHERE organization_id = $1
		ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.ShiftCategory, 0)
	for rows.Next() {
		category := &domain.ShiftCategory{OrganizationID: organizationID}
		dst := []any{&category.ID, &category.Name, &category.HourlyRate, &category.Color, &category.CreatedAt, &category.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// GetShiftCategoryRates returns the category id to hourly rate map used when
// resolving wage attribution for payroll.
func (r *Repository) GetShiftCategoryRates(organizationID int64) (map[int64]decimal.Decimal, error) {
	categories, err := r.GetAllShiftCategories(organizationID)
	if err != nil {
		return nil, err
	}

	rates := make(map[int64]decimal.Decimal, len(categories))
	for _, category := range categories {
		rates[category.ID] = category.HourlyRate
	}

	return rates, nil
}

func (r *Repository) UpdateShiftCategory(category *domain.ShiftCategory) error {
	query := `
		UPDATE shift_categories
		SET
			name = $1,
			hourly_rate = $2,
			color = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{category.Name, category.HourlyRate, category.Color, category.ID, category.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&category.Version); err != nil {
		return err
	}

	return nil
}
