package repository

import (
	"context"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (r *Repository) CreateStaff(member *domain.Staff) error {
	query := `
		INSERT INTO staff (organization_id, username, password_hash, full_name, email, role, pay_type, default_hourly_rate, monthly_salary, home_location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		member.OrganizationID,
		member.Username,
		member.PasswordHash,
		member.FullName,
		member.Email,
		member.Role,
		member.PayType,
		member.DefaultHourlyRate,
		member.MonthlySalary,
		member.HomeLocationID,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&member.ID, &member.IsActive, &member.CreatedAt, &member.Version); err != nil {
		return conflictOn(err, "staff_username_key", "username is already taken")
	}

	return nil
}

func (r *Repository) GetStaffByID(id int64) (*domain.Staff, error) {
	query := `
		SELECT organization_id, username, password_hash, full_name, email, role, pay_type, default_hourly_rate, monthly_salary, home_location_id, is_active, created_at, version
		FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	member := &domain.Staff{
		ID: id,
	}

	dst := []any{
		&member.OrganizationID,
		&member.Username,
		&member.PasswordHash,
		&member.FullName,
		&member.Email,
		&member.Role,
		&member.PayType,
		&member.DefaultHourlyRate,
		&member.MonthlySalary,
		&member.HomeLocationID,
		&member.IsActive,
		&member.CreatedAt,
		&member.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return member, nil
}

func (r *Repository) GetStaffByUsername(username string) (*domain.Staff, error) {
	query := `
		SELECT id, organization_id, password_hash, full_name, email, role, pay_type, default_hourly_rate, monthly_salary, home_location_id, is_active, created_at, version
		FROM staff WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	member := &domain.Staff{
		Username: username,
	}

	dst := []any{
		&member.ID,
		&member.OrganizationID,
		&member.PasswordHash,
		&member.FullName,
		&member.Email,
		&member.Role,
		&member.PayType,
		&member.DefaultHourlyRate,
		&member.MonthlySalary,
		&member.HomeLocationID,
		&member.IsActive,
		&member.CreatedAt,
		&member.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return member, nil
}

func (r *Repository) GetAllStaff(organizationID int64) ([]*domain.Staff, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, pay_type, default_hourly_rate, monthly_salary, home_location_id, is_active, created_at, version
		FROM staff WHERE organization_id = $1
		ORDER BY full_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.Staff, 0)
	for rows.Next() {
		member := &domain.Staff{OrganizationID: organizationID}
		dst := []any{
			&member.ID,
			&member.Username,
			&member.PasswordHash,
			&member.FullName,
			&member.Email,
			&member.Role,
			&member.PayType,
			&member.DefaultHourlyRate,
			&member.MonthlySalary,
			&member.HomeLocationID,
			&member.IsActive,
			&member.CreatedAt,
			&member.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

// GetManagers lists the active managers and admins of an organization, the
// audience for workflow notifications.
func (r *Repository) GetManagers(organizationID int64) ([]*domain.Staff, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, pay_type, default_hourly_rate, monthly_salary, home_location_id, is_active, created_at, version
		FROM staff
		WHERE organization_id = $1 AND role IN ('MANAGER', 'ADMIN') AND is_active
		ORDER BY full_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.Staff, 0)
	for rows.Next() {
		member := &domain.Staff{OrganizationID: organizationID}
		dst := []any{
			&member.ID,
			&member.Username,
			&member.PasswordHash,
			&member.FullName,
			&member.Email,
			&member.Role,
			&member.PayType,
			&member.DefaultHourlyRate,
			&member.MonthlySalary,
			&member.HomeLocationID,
			&member.IsActive,
			&member.CreatedAt,
			&member.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) UpdateStaff(member *domain.Staff) error {
	query := `
		UPDATE staff
		SET
			password_hash = $1,
			full_name = $2,
			email = $3,
			role = $4,
			pay_type = $5,
			default_hourly_rate = $6,
			monthly_salary = $7,
			home_location_id = $8,
			is_active = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		member.PasswordHash,
		member.FullName,
		member.Email,
		member.Role,
		member.PayType,
		member.DefaultHourlyRate,
		member.MonthlySalary,
		member.HomeLocationID,
		member.IsActive,
		member.ID,
		member.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&member.Version); err != nil {
		return err
	}

	return nil
}
