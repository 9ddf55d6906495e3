package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (r *Repository) CreateAvailability(slot *domain.Availability) error {
	query := `
		INSERT INTO availability (staff_id, weekday, date, start_time, end_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var weekday *int
	if slot.Weekday != nil {
		w := int(*slot.Weekday)
		weekday = &w
	}

	args := []any{slot.StaffID, weekday, slot.Date, slot.StartTime, slot.EndTime, slot.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt); err != nil {
		return err
	}

	return nil
}

func scanAvailability(scan func(dst ...any) error) (*domain.Availability, error) {
	slot := &domain.Availability{}
	var weekday sql.NullInt32
	var date sql.NullTime

	dst := []any{&slot.ID, &slot.StaffID, &weekday, &date, &slot.StartTime, &slot.EndTime, &slot.Notes, &slot.CreatedAt}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if weekday.Valid {
		w := time.Weekday(weekday.Int32)
		slot.Weekday = &w
	}
	if date.Valid {
		d := date.Time
		slot.Date = &d
	}

	return slot, nil
}

func (r *Repository) GetAvailabilityByID(id int64) (*domain.Availability, error) {
	query := `
		SELECT id, staff_id, weekday, date, start_time, end_time, notes, created_at
		FROM availability WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanAvailability(row.Scan)
}

func (r *Repository) GetAvailabilityForStaff(staffID int64) ([]*domain.Availability, error) {
	query := `
		SELECT id, staff_id, weekday, date, start_time, end_time, notes, created_at
		FROM availability WHERE staff_id = $1
		ORDER BY weekday NULLS LAST, date NULLS LAST, start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.Availability, 0)
	for rows.Next() {
		slot, err := scanAvailability(rows.Scan)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// GetAvailabilityForStaffIDs loads the slots for a set of staff members in one
// query, for annotating the schedule grid.
func (r *Repository) GetAvailabilityForStaffIDs(staffIDs []int64) (map[int64][]*domain.Availability, error) {
	byStaff := make(map[int64][]*domain.Availability)
	if len(staffIDs) == 0 {
		return byStaff, nil
	}

	query := `
		SELECT id, staff_id, weekday, date, start_time, end_time, notes, created_at
		FROM availability WHERE staff_id = ANY($1)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		slot, err := scanAvailability(rows.Scan)
		if err != nil {
			return nil, err
		}
		byStaff[slot.StaffID] = append(byStaff[slot.StaffID], slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byStaff, nil
}

func (r *Repository) DeleteAvailability(id int64) error {
	query := `DELETE FROM availability WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
