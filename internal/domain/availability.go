package domain

import "time"

// Availability is an advisory signal only: it never blocks assignment, it just
// lets the schedule grid flag "no stated availability".
//
// A slot is either recurring weekly (Weekday set, Date nil) or one-off
// (Date set, Weekday nil). StartTime/EndTime are wall-clock "15:04" strings
// since a recurring slot has no calendar date to anchor a timestamp to.
type Availability struct {
	ID        int64         `json:"id"`
	StaffID   int64         `json:"staffID"`
	Weekday   *time.Weekday `json:"weekday"`
	Date      *time.Time    `json:"date"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Covers reports whether the slot covers the given instant. Used when
// annotating the schedule grid; evaluated in the instant's location.
func (a *Availability) Covers(t time.Time) bool {
	if a.Date != nil {
		y1, m1, d1 := a.Date.Date()
		y2, m2, d2 := t.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	} else if a.Weekday == nil || *a.Weekday != t.Weekday() {
		return false
	}

	start, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", a.EndTime)
	if err != nil {
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	startMinutes := start.Hour()*60 + start.Minute()
	endMinutes := end.Hour()*60 + end.Minute()

	return minutes >= startMinutes && minutes < endMinutes
}
