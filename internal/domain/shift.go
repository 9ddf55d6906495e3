package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ShiftCategory struct {
	ID             int64           `json:"id"`
	OrganizationID int64           `json:"organizationID"`
	Name           string          `json:"name"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	Color          string          `json:"color"`
	CreatedAt      time.Time       `json:"createdAt"`
	Version        int32           `json:"-"`
}

type ShiftStatus string

const (
	ShiftStatusOpen      ShiftStatus = "open"
	ShiftStatusAssigned  ShiftStatus = "assigned"
	ShiftStatusConfirmed ShiftStatus = "confirmed"
	// ShiftStatusArchived replaces deletion once time has been logged against
	// the shift, so payroll keeps its audit trail.
	ShiftStatusArchived ShiftStatus = "archived"
)

// ShiftSegment is a sub-interval of a shift with its own wage category. When a
// shift carries segments they supersede the shift-level category for cost
// attribution.
type ShiftSegment struct {
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	CategoryID int64     `json:"categoryID"`
}

type Shift struct {
	ID                    int64          `json:"id"`
	OrganizationID        int64          `json:"organizationID"`
	Title                 string         `json:"title"`
	StartTime             time.Time      `json:"startTime"`
	EndTime               time.Time      `json:"endTime"`
	ScheduledBreakMinutes int            `json:"scheduledBreakMinutes"`
	LocationID            *int64         `json:"locationID"`
	CategoryID            *int64         `json:"categoryID"`
	AssignedStaffID       *int64         `json:"assignedStaffID"`
	Status                ShiftStatus    `json:"status"`
	Segments              []ShiftSegment `json:"segments"`
	CreatedAt             time.Time      `json:"createdAt"`
	Version               int32          `json:"-"`
}

// NormalizeOvernight rolls the end time forward by one day when a shift ends
// at or before its start, which is how overnight shifts are entered.
func (s *Shift) NormalizeOvernight() {
	if !s.EndTime.After(s.StartTime) {
		s.EndTime = s.EndTime.AddDate(0, 0, 1)
	}
}

// ValidateSegments checks the segment invariants: chronological within each
// segment, contained in [StartTime, EndTime), and pairwise non-overlapping.
// Must hold on every write; segments are never re-interpreted at read time.
func (s *Shift) ValidateSegments() error {
	for i, seg := range s.Segments {
		if !seg.EndTime.After(seg.StartTime) {
			return fmt.Errorf("%w: segment %d ends at or before it starts", ErrValidation, i+1)
		}
		if seg.StartTime.Before(s.StartTime) || seg.EndTime.After(s.EndTime) {
			return fmt.Errorf("%w: segment %d falls outside the shift window", ErrValidation, i+1)
		}
		if seg.CategoryID == 0 {
			return fmt.Errorf("%w: segment %d has no wage category", ErrValidation, i+1)
		}
	}

	for i := 0; i < len(s.Segments); i++ {
		for j := i + 1; j < len(s.Segments); j++ {
			a, b := s.Segments[i], s.Segments[j]
			if a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime) {
				return fmt.Errorf("%w: segments %d and %d overlap", ErrValidation, i+1, j+1)
			}
		}
	}

	return nil
}

// Assign sets the assignee and moves the shift out of the open state. Archived
// shifts are no longer assignable.
func (s *Shift) Assign(staffID int64) error {
	if s.Status == ShiftStatusArchived {
		return fmt.Errorf("%w: shift is archived", ErrConflict)
	}
	s.AssignedStaffID = &staffID
	if s.Status == ShiftStatusOpen {
		s.Status = ShiftStatusAssigned
	}
	return nil
}

// Release clears the assignee and reopens the shift, the effect of an approved
// drop request.
func (s *Shift) Release() {
	s.AssignedStaffID = nil
	s.Status = ShiftStatusOpen
}

// IsAssignedTo reports whether staffID is the current assignee.
func (s *Shift) IsAssignedTo(staffID int64) bool {
	return s.AssignedStaffID != nil && *s.AssignedStaffID == staffID
}
