package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (r *Repository) CreateShift(shift *domain.Shift) error {
	segments, err := json.Marshal(shift.Segments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shifts (organization_id, title, start_time, end_time, scheduled_break_minutes, location_id, category_id, assigned_staff_id, status, segments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		shift.OrganizationID,
		shift.Title,
		shift.StartTime,
		shift.EndTime,
		shift.ScheduledBreakMinutes,
		shift.LocationID,
		shift.CategoryID,
		shift.AssignedStaffID,
		shift.Status,
		segments,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

func scanShift(scan func(dst ...any) error) (*domain.Shift, error) {
	shift := &domain.Shift{}
	var segments []byte

	dst := []any{
		&shift.ID,
		&shift.OrganizationID,
		&shift.Title,
		&shift.StartTime,
		&shift.EndTime,
		&shift.ScheduledBreakMinutes,
		&shift.LocationID,
		&shift.CategoryID,
		&shift.AssignedStaffID,
		&shift.Status,
		&segments,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &shift.Segments); err != nil {
			return nil, err
		}
	}

	return shift, nil
}

const shiftColumns = `id, organization_id, title, start_time, end_time, scheduled_break_minutes, location_id, category_id, assigned_staff_id, status, segments, created_at, version`

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanShift(row.Scan)
}

// GetShiftsInRange lists shifts overlapping [start, end), optionally filtered
// by location, in start order.
func (r *Repository) GetShiftsInRange(organizationID int64, start, end time.Time, locationID *int64) ([]*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE organization_id = $1
			AND start_time < $3 AND end_time > $2
			AND ($4::bigint IS NULL OR location_id = $4)
		ORDER BY start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, start, end, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows.Scan)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// UpdateShift persists any shift mutation with a version compare-and-swap, so
// two managers racing on the same shift cannot both win: the loser's stale
// version matches no row and comes back as a conflict.
func (r *Repository) UpdateShift(shift *domain.Shift) error {
	segments, err := json.Marshal(shift.Segments)
	if err != nil {
		return err
	}

	query := `
		UPDATE shifts
		SET
			title = $1,
			start_time = $2,
			end_time = $3,
			scheduled_break_minutes = $4,
			location_id = $5,
			category_id = $6,
			assigned_staff_id = $7,
			status = $8,
			segments = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		shift.Title,
		shift.StartTime,
		shift.EndTime,
		shift.ScheduledBreakMinutes,
		shift.LocationID,
		shift.CategoryID,
		shift.AssignedStaffID,
		shift.Status,
		segments,
		shift.ID,
		shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: shift was modified concurrently, retry with fresh state", domain.ErrConflict)
		}
		return err
	}

	return nil
}

// ShiftHasTimeEntries reports whether time has been logged against the shift,
// which forbids hard deletion.
func (r *Repository) ShiftHasTimeEntries(shiftID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM time_entries WHERE shift_id = $1)`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, query, shiftID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// DeleteShift hard-deletes only shifts nothing was logged against; the delete
// and the check run in one transaction so a clock-in racing the delete cannot
// orphan its entry.
func (r *Repository) DeleteShift(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var hasEntries bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM time_entries WHERE shift_id = $1)`, id).Scan(&hasEntries); err != nil {
		return err
	}
	if hasEntries {
		return fmt.Errorf("%w: time has been logged against this shift, archive it instead", domain.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// FindScheduledShiftForStaff matches a clock-in to the staff member's shift
// scheduled on the same calendar day, preferring the one starting closest to
// the clock-in instant.
func (r *Repository) FindScheduledShiftForStaff(staffID int64, at time.Time) (*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE assigned_staff_id = $1
			AND status IN ('assigned', 'confirmed')
			AND start_time::date = $2::date
		ORDER BY ABS(EXTRACT(EPOCH FROM (start_time - $2)))
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, staffID, at)
	return scanShift(row.Scan)
}
