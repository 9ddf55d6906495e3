// Package timeclock implements the time-entry state machine:
//
//	ACTIVE -> ON_BREAK -> ACTIVE -> PENDING -> APPROVED | REJECTED
//
// Transitions here are pure; the repository layer persists them atomically and
// the database enforces the one-open-entry-per-staff constraint.
package timeclock

import (
	"fmt"
	"math"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

// Window configures the clock-in anomaly window around a shift's scheduled
// start: more than Early minutes before it flags EARLY, more than Grace
// minutes after it flags LATE.
type Window struct {
	EarlyMinutes int
	GraceMinutes int
}

// FlagFor computes the advisory clock-in flag. Entries with no linked shift
// have no scheduled start to compare against and are never flagged.
func FlagFor(clockIn time.Time, scheduledStart *time.Time, w Window) domain.ClockInFlag {
	if scheduledStart == nil {
		return domain.ClockInFlagNone
	}

	early := time.Duration(w.EarlyMinutes) * time.Minute
	grace := time.Duration(w.GraceMinutes) * time.Minute

	switch {
	case clockIn.Before(scheduledStart.Add(-early)):
		return domain.ClockInFlagEarly
	case clockIn.After(scheduledStart.Add(grace)):
		return domain.ClockInFlagLate
	default:
		return domain.ClockInFlagNone
	}
}

// NewEntry builds a fresh ACTIVE entry at clock-in. The caller supplies the
// matched shift's scheduled start (nil when unscheduled) and the geofence
// outcome; geofence failure never rejects a clock-in, it only travels on the
// entry as audit data.
func NewEntry(orgID, staffID int64, shiftID *int64, at time.Time, scheduledStart *time.Time, w Window, coords *domain.Coordinates, distance *float64) *domain.TimeEntry {
	return &domain.TimeEntry{
		OrganizationID:     orgID,
		StaffID:            staffID,
		ShiftID:            shiftID,
		State:              domain.TimeEntryStateActive,
		ClockIn:            at,
		Flag:               FlagFor(at, scheduledStart, w),
		ClockInCoordinates: coords,
		DistanceMetres:     distance,
	}
}

// NewManualEntry builds a manager-backfilled entry that skips the clock
// entirely and lands straight in PENDING. A clock-out at or before the
// clock-in is treated as an overnight span and rolled to the next day.
func NewManualEntry(orgID, staffID int64, shiftID *int64, clockIn, clockOut time.Time, breakMinutes int) (*domain.TimeEntry, error) {
	if breakMinutes < 0 {
		return nil, fmt.Errorf("%w: break minutes must not be negative", domain.ErrValidation)
	}
	if !clockOut.After(clockIn) {
		clockOut = clockOut.AddDate(0, 0, 1)
	}

	return &domain.TimeEntry{
		OrganizationID: orgID,
		StaffID:        staffID,
		ShiftID:        shiftID,
		State:          domain.TimeEntryStatePending,
		ClockIn:        clockIn,
		ClockOut:       &clockOut,
		BreakMinutes:   breakMinutes,
		Flag:           domain.ClockInFlagNone,
		Manual:         true,
	}, nil
}

// StartBreak moves an ACTIVE entry onto break.
func StartBreak(e *domain.TimeEntry, at time.Time) error {
	switch e.State {
	case domain.TimeEntryStateActive:
	case domain.TimeEntryStateOnBreak:
		return fmt.Errorf("%w: already on break", domain.ErrValidation)
	default:
		return fmt.Errorf("%w: cannot start a break after clocking out", domain.ErrValidation)
	}
	if at.Before(e.ClockIn) {
		return fmt.Errorf("%w: break cannot start before clock-in", domain.ErrValidation)
	}

	e.State = domain.TimeEntryStateOnBreak
	e.BreakStart = &at
	return nil
}

// EndBreak returns the entry to ACTIVE and adds the elapsed whole minutes to
// the running break total, which only ever grows.
func EndBreak(e *domain.TimeEntry, at time.Time) error {
	if e.State != domain.TimeEntryStateOnBreak {
		return fmt.Errorf("%w: no break in progress", domain.ErrValidation)
	}

	elapsed := int(math.Round(at.Sub(*e.BreakStart).Minutes()))
	if elapsed < 0 {
		return fmt.Errorf("%w: break cannot end before it started", domain.ErrValidation)
	}

	e.State = domain.TimeEntryStateActive
	e.BreakMinutes += elapsed
	e.BreakStart = nil
	return nil
}

// ClockOut closes an ACTIVE entry into PENDING. Clocking out while on break
// is rejected; the caller must end the break first so its minutes are counted.
func ClockOut(e *domain.TimeEntry, at time.Time) error {
	switch e.State {
	case domain.TimeEntryStateOnBreak:
		return fmt.Errorf("%w: end the current break before clocking out", domain.ErrValidation)
	case domain.TimeEntryStateActive:
	default:
		return fmt.Errorf("%w: entry is already clocked out", domain.ErrValidation)
	}
	if at.Before(e.ClockIn) {
		return fmt.Errorf("%w: clock-out cannot precede clock-in", domain.ErrValidation)
	}

	e.State = domain.TimeEntryStatePending
	e.ClockOut = &at
	return nil
}

// Approve moves a PENDING entry to APPROVED, the only path into payroll
// aggregation. Re-approving an already approved entry is a no-op, reported
// through the changed return so the caller can still audit-log the call.
func Approve(e *domain.TimeEntry) (changed bool, err error) {
	return review(e, domain.TimeEntryStateApproved)
}

// Reject moves a PENDING entry to REJECTED, idempotently.
func Reject(e *domain.TimeEntry) (changed bool, err error) {
	return review(e, domain.TimeEntryStateRejected)
}

func review(e *domain.TimeEntry, target domain.TimeEntryState) (bool, error) {
	switch e.State {
	case target:
		return false, nil
	case domain.TimeEntryStatePending:
		e.State = target
		return true, nil
	case domain.TimeEntryStateActive, domain.TimeEntryStateOnBreak:
		return false, fmt.Errorf("%w: entry is still open", domain.ErrValidation)
	default:
		return false, fmt.Errorf("%w: entry was already %s", domain.ErrConflict, e.State)
	}
}

// ClearFlag records manager clearance of an EARLY/LATE flag.
func ClearFlag(e *domain.TimeEntry) error {
	if e.Flag == domain.ClockInFlagNone {
		return fmt.Errorf("%w: entry is not flagged", domain.ErrValidation)
	}
	e.FlagCleared = true
	return nil
}
