package domain

import "time"

// TimeEntryState makes the clock lifecycle explicit instead of inferring it
// from nullable timestamps: ACTIVE and ON_BREAK are the open states, the rest
// are closed and awaiting or past manager review.
type TimeEntryState string

const (
	TimeEntryStateActive   TimeEntryState = "ACTIVE"
	TimeEntryStateOnBreak  TimeEntryState = "ON_BREAK"
	TimeEntryStatePending  TimeEntryState = "PENDING"
	TimeEntryStateApproved TimeEntryState = "APPROVED"
	TimeEntryStateRejected TimeEntryState = "REJECTED"
)

// IsOpen reports whether the entry still counts against the one-open-entry-
// per-staff constraint.
func (s TimeEntryState) IsOpen() bool {
	return s == TimeEntryStateActive || s == TimeEntryStateOnBreak
}

// ClockInFlag marks an anomalous clock-in relative to the scheduled shift
// start. Flags are advisory: they require manager clearance but never block
// the clock-in itself.
type ClockInFlag string

const (
	ClockInFlagNone  ClockInFlag = "NONE"
	ClockInFlagEarly ClockInFlag = "EARLY"
	ClockInFlagLate  ClockInFlag = "LATE"
)

type TimeEntry struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organizationID"`
	StaffID        int64          `json:"staffID"`
	ShiftID        *int64         `json:"shiftID"`
	State          TimeEntryState `json:"state"`
	ClockIn        time.Time      `json:"clockIn"`
	ClockOut       *time.Time     `json:"clockOut"`
	BreakStart     *time.Time     `json:"breakStart"`
	BreakMinutes   int            `json:"breakMinutes"`
	Flag           ClockInFlag    `json:"flag"`
	FlagCleared    bool           `json:"flagCleared"`
	// Manual marks manager-backfilled entries that never went through the
	// clock at all.
	Manual bool `json:"manual"`
	// Clock-in geolocation, captured for audit. Distance is the computed
	// staff-to-location distance, nil when either side had no coordinates.
	ClockInCoordinates *Coordinates `json:"clockInCoordinates"`
	DistanceMetres     *float64     `json:"distanceMetres"`
	CreatedAt          time.Time    `json:"createdAt"`
	Version            int32        `json:"-"`
}

// NetHours is the payable duration: clocked span minus accumulated break,
// floored at zero. Zero while the entry is still open.
func (e *TimeEntry) NetHours() float64 {
	if e.ClockOut == nil {
		return 0
	}
	hours := e.ClockOut.Sub(e.ClockIn).Hours() - float64(e.BreakMinutes)/60
	if hours < 0 {
		return 0
	}
	return hours
}
