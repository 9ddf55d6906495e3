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

// CreateTimeEntry inserts a fresh entry. The partial unique index on open
// states is the real guard against double clock-in: even if two requests for
// the same staff member slip past the advisory lock, the second insert fails
// here and surfaces as a conflict.
func (r *Repository) CreateTimeEntry(entry *domain.TimeEntry) error {
	query := `
		INSERT INTO time_entries (organization_id, staff_id, shift_id, state, clock_in, clock_out, break_start, break_minutes, flag, flag_cleared, manual, clock_in_latitude, clock_in_longitude, distance_metres)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var lat, lng *float64
	if entry.ClockInCoordinates != nil {
		lat = &entry.ClockInCoordinates.Latitude
		lng = &entry.ClockInCoordinates.Longitude
	}

	args := []any{
		entry.OrganizationID,
		entry.StaffID,
		entry.ShiftID,
		entry.State,
		entry.ClockIn,
		entry.ClockOut,
		entry.BreakStart,
		entry.BreakMinutes,
		entry.Flag,
		entry.FlagCleared,
		entry.Manual,
		lat,
		lng,
		entry.DistanceMetres,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.Version); err != nil {
		return conflictOn(err, "time_entries_one_open_per_staff", "staff member already has an open time entry")
	}

	return nil
}

func scanTimeEntry(scan func(dst ...any) error) (*domain.TimeEntry, error) {
	entry := &domain.TimeEntry{}
	var lat, lng sql.NullFloat64

	dst := []any{
		&entry.ID,
		&entry.OrganizationID,
		&entry.StaffID,
		&entry.ShiftID,
		&entry.State,
		&entry.ClockIn,
		&entry.ClockOut,
		&entry.BreakStart,
		&entry.BreakMinutes,
		&entry.Flag,
		&entry.FlagCleared,
		&entry.Manual,
		&lat,
		&lng,
		&entry.DistanceMetres,
		&entry.CreatedAt,
		&entry.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		entry.ClockInCoordinates = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return entry, nil
}

const timeEntryColumns = `id, organization_id, staff_id, shift_id, state, clock_in, clock_out, break_start, break_minutes, flag, flag_cleared, manual, clock_in_latitude, clock_in_longitude, distance_metres, created_at, version`

func (r *Repository) GetTimeEntryByID(id int64) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanTimeEntry(row.Scan)
}

// GetOpenTimeEntryForStaff returns the staff member's ACTIVE or ON_BREAK
// entry; sql.ErrNoRows means they are not clocked in.
func (r *Repository) GetOpenTimeEntryForStaff(staffID int64) (*domain.TimeEntry, error) {
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE staff_id = $1 AND state IN ('ACTIVE', 'ON_BREAK')
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, staffID)
	return scanTimeEntry(row.Scan)
}

// UpdateTimeEntry persists a transition atomically via version CAS, so a
// partial change (break minutes without the state flip) can never land.
func (r *Repository) UpdateTimeEntry(entry *domain.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET
			state = $1,
			clock_out = $2,
			break_start = $3,
			break_minutes = $4,
			flag = $5,
			flag_cleared = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		entry.State,
		entry.ClockOut,
		entry.BreakStart,
		entry.BreakMinutes,
		entry.Flag,
		entry.FlagCleared,
		entry.ID,
		entry.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: time entry was modified concurrently, retry with fresh state", domain.ErrConflict)
		}
		return err
	}

	return nil
}

func (r *Repository) GetTimeEntriesForStaff(staffID int64, start, end time.Time) ([]*domain.TimeEntry, error) {
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE staff_id = $1 AND clock_in >= $2 AND clock_in < $3
		ORDER BY clock_in DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.TimeEntry, 0)
	for rows.Next() {
		entry, err := scanTimeEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetPendingTimeEntries lists the review queue for managers, oldest first.
func (r *Repository) GetPendingTimeEntries(organizationID int64) ([]*domain.TimeEntry, error) {
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE organization_id = $1 AND state = 'PENDING'
		ORDER BY clock_in
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.TimeEntry, 0)
	for rows.Next() {
		entry, err := scanTimeEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ApprovedWork is an approved entry joined to its shift, the payroll
// aggregator's raw input.
type ApprovedWork struct {
	Entry *domain.TimeEntry
	Shift *domain.Shift
}

// GetApprovedWorkInWindow returns approved entries clocked in within
// [start, end), optionally restricted to one location via the linked shift.
func (r *Repository) GetApprovedWorkInWindow(organizationID int64, start, end time.Time, locationID *int64) ([]*ApprovedWork, error) {
	query := `
		SELECT
			te.id, te.organization_id, te.staff_id, te.shift_id, te.state, te.clock_in, te.clock_out, te.break_start, te.break_minutes, te.flag, te.flag_cleared, te.manual, te.clock_in_latitude, te.clock_in_longitude, te.distance_metres, te.created_at, te.version,
			s.id, s.organization_id, s.title, s.start_time, s.end_time, s.scheduled_break_minutes, s.location_id, s.category_id, s.assigned_staff_id, s.status, s.segments, s.created_at, s.version
		FROM time_entries te
		LEFT JOIN shifts s ON te.shift_id = s.id
		WHERE te.organization_id = $1
			AND te.state = 'APPROVED'
			AND te.clock_in >= $2 AND te.clock_in < $3
			AND ($4::bigint IS NULL OR s.location_id = $4)
		ORDER BY te.clock_in
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, start, end, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	work := make([]*ApprovedWork, 0)
	for rows.Next() {
		entry := &domain.TimeEntry{}
		var entryLat, entryLng sql.NullFloat64

		var shiftID, shiftOrgID sql.NullInt64
		var shiftTitle, shiftStatus sql.NullString
		var shiftStart, shiftEnd, shiftCreatedAt sql.NullTime
		var shiftBreakMinutes, shiftVersion sql.NullInt32
		var shiftLocationID, shiftCategoryID, shiftAssigneeID sql.NullInt64
		var shiftSegments []byte

		dst := []any{
			&entry.ID, &entry.OrganizationID, &entry.StaffID, &entry.ShiftID, &entry.State,
			&entry.ClockIn, &entry.ClockOut, &entry.BreakStart, &entry.BreakMinutes,
			&entry.Flag, &entry.FlagCleared, &entry.Manual, &entryLat, &entryLng,
			&entry.DistanceMetres, &entry.CreatedAt, &entry.Version,
			&shiftID, &shiftOrgID, &shiftTitle, &shiftStart, &shiftEnd, &shiftBreakMinutes,
			&shiftLocationID, &shiftCategoryID, &shiftAssigneeID, &shiftStatus, &shiftSegments,
			&shiftCreatedAt, &shiftVersion,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if entryLat.Valid && entryLng.Valid {
			entry.ClockInCoordinates = &domain.Coordinates{Latitude: entryLat.Float64, Longitude: entryLng.Float64}
		}

		item := &ApprovedWork{Entry: entry}
		if shiftID.Valid {
			shift := &domain.Shift{
				ID:                    shiftID.Int64,
				OrganizationID:        shiftOrgID.Int64,
				Title:                 shiftTitle.String,
				StartTime:             shiftStart.Time,
				EndTime:               shiftEnd.Time,
				ScheduledBreakMinutes: int(shiftBreakMinutes.Int32),
				Status:                domain.ShiftStatus(shiftStatus.String),
				CreatedAt:             shiftCreatedAt.Time,
				Version:               shiftVersion.Int32,
			}
			if shiftLocationID.Valid {
				shift.LocationID = &shiftLocationID.Int64
			}
			if shiftCategoryID.Valid {
				shift.CategoryID = &shiftCategoryID.Int64
			}
			if shiftAssigneeID.Valid {
				shift.AssignedStaffID = &shiftAssigneeID.Int64
			}
			if len(shiftSegments) > 0 {
				if err := json.Unmarshal(shiftSegments, &shift.Segments); err != nil {
					return nil, err
				}
			}
			item.Shift = shift
		}

		work = append(work, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return work, nil
}
