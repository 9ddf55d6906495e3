package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/breakrule"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/geofence"
	"github.com/rotaworks-dev/staffhub/backend/internal/timeclock"
)

func (h *Handler) clockWindow() timeclock.Window {
	return timeclock.Window{
		EarlyMinutes: h.config.TimeClock.EarlyWindowMinutes,
		GraceMinutes: h.config.TimeClock.LateGraceMinutes,
	}
}

// acquireClockLock takes the per-staff advisory lock that serializes clock
// operations. The DB's partial unique index on open entries remains the
// backstop if two requests slip past it.
func (h *Handler) acquireClockLock(r *http.Request, staffID int64) (release func(), ok bool, err error) {
	key := fmt.Sprintf("clock_lock_%d", staffID)
	expiry := time.Duration(h.config.Redis.LockExpiration) * time.Second

	ok, err = h.redisClient.SetNX(r.Context(), key, 1, expiry).Result()
	if err != nil || !ok {
		return nil, ok, err
	}

	// release on its own context: the request context may already be canceled
	// by the time the deferred release runs, which would leave the lock held
	// until it expires
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), expiry)
		defer cancel()
		if err := h.redisClient.Del(ctx, key).Err(); err != nil {
			slog.Error("failed to release clock lock", "staffID", staffID, "error", err)
		}
	}, true, nil
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	var req struct {
		Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
		Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
		ShiftID   *int64   `json:"shiftID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		h.errorResponse(w, r, http.StatusBadRequest, "latitude and longitude must be provided together")
		return
	}

	release, ok, err := h.acquireClockLock(r, myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, http.StatusConflict, "another clock operation is in progress")
		return
	}
	defer release()

	if _, err := h.repository.GetOpenTimeEntryForStaff(myInfo.ID); err == nil {
		h.errorResponse(w, r, http.StatusConflict, "you already have an open time entry")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now()

	// explicit shift wins, otherwise match today's assigned shift
	var shift *domain.Shift
	if req.ShiftID != nil {
		shift, err = h.repository.GetShiftByID(*req.ShiftID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if shift.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "shift not found")
			return
		}
		if !shift.IsAssignedTo(myInfo.ID) {
			h.errorResponse(w, r, http.StatusForbidden, "you are not assigned to this shift")
			return
		}
	} else {
		shift, err = h.repository.FindScheduledShiftForStaff(myInfo.ID, now)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			h.internalServerError(w, r, err)
			return
		}
	}

	var staffCoords *domain.Coordinates
	if req.Latitude != nil {
		staffCoords = &domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	location, err := h.clockInLocation(shift, myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// geofence is advisory: the outcome and distance travel on the entry for
	// review, an out-of-radius clock-in still goes through
	var locCoords *domain.Coordinates
	radius := h.config.Geofence.DefaultRadiusMetres
	if location != nil {
		locCoords = location.Coordinates
		if location.ClockInRadiusMetres > 0 {
			radius = location.ClockInRadiusMetres
		}
	}
	result := geofence.Evaluate(staffCoords, locCoords, radius)
	if !result.Allowed {
		slog.Info("out-of-radius clock-in", "staffID", myInfo.ID, "distanceMetres", *result.DistanceMetres, "radiusMetres", radius)
	}

	var shiftID *int64
	var scheduledStart *time.Time
	if shift != nil {
		shiftID = &shift.ID
		scheduledStart = &shift.StartTime
	}

	entry := timeclock.NewEntry(callerOrg(r), myInfo.ID, shiftID, now, scheduledStart, h.clockWindow(), staffCoords, result.DistanceMetres)

	if err := h.repository.CreateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	if entry.Flag != domain.ClockInFlagNone {
		h.notifyManagers(callerOrg(r), domain.NotificationMessage{
			Type:    domain.NotificationTimeEntryFlagged,
			Title:   "Flagged clock-in",
			Message: myInfo.FullName + " clocked in " + string(entry.Flag) + " at " + now.Format("15:04") + ".",
		})
	}

	h.successResponse(w, r, "clocked in", entry)
}

// clockInLocation resolves the location a clock-in is checked against: the
// matched shift's location, else the staff member's home location.
func (h *Handler) clockInLocation(shift *domain.Shift, member *domain.Staff) (*domain.Location, error) {
	var locationID *int64
	if shift != nil && shift.LocationID != nil {
		locationID = shift.LocationID
	} else if member.HomeLocationID != nil {
		locationID = member.HomeLocationID
	}
	if locationID == nil {
		return nil, nil
	}

	location, err := h.repository.GetLocationByID(*locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return location, nil
}

// notifyManagers fans a notification out to every manager and admin of the
// organization.
func (h *Handler) notifyManagers(organizationID int64, msg domain.NotificationMessage) {
	managers, err := h.repository.GetManagers(organizationID)
	if err != nil {
		slog.Error("failed to load managers for notification", "type", msg.Type, "error", err)
		return
	}
	for _, manager := range managers {
		msg.RecipientID = manager.ID
		h.notify(msg)
	}
}

// openEntry loads the caller's open entry or writes the appropriate error.
func (h *Handler) openEntry(w http.ResponseWriter, r *http.Request, staffID int64) (*domain.TimeEntry, bool) {
	entry, err := h.repository.GetOpenTimeEntryForStaff(staffID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "you are not clocked in")
		default:
			h.internalServerError(w, r, err)
		}
		return nil, false
	}
	return entry, true
}

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	entry, ok := h.openEntry(w, r, myInfo.ID)
	if !ok {
		return
	}

	if err := timeclock.StartBreak(entry, time.Now()); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.UpdateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "break started", entry)
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	entry, ok := h.openEntry(w, r, myInfo.ID)
	if !ok {
		return
	}

	if err := timeclock.EndBreak(entry, time.Now()); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.UpdateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "break ended", entry)
}

// breakCompliance reports the mandated break for the hours worked against what
// was actually taken. Advisory, surfaced to the reviewing manager.
type breakCompliance struct {
	MandatedMinutes int  `json:"mandatedMinutes"`
	TakenMinutes    int  `json:"takenMinutes"`
	Compliant       bool `json:"compliant"`
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	entry, ok := h.openEntry(w, r, myInfo.ID)
	if !ok {
		return
	}

	if err := timeclock.ClockOut(entry, time.Now()); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.UpdateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	var shift *domain.Shift
	if entry.ShiftID != nil {
		linked, err := h.repository.GetShiftByID(*entry.ShiftID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			h.internalServerError(w, r, err)
			return
		}
		if linked != nil && linked.OrganizationID == entry.OrganizationID {
			shift = linked
		}
	}
	location, err := h.clockInLocation(shift, myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	tiers := breakrule.TiersFor(location, h.defaultBreakTiers)
	mandated := breakrule.MandatedMinutes(entry.NetHours(), tiers)

	h.successResponse(w, r, "clocked out", struct {
		Entry           *domain.TimeEntry `json:"entry"`
		BreakCompliance breakCompliance   `json:"breakCompliance"`
	}{
		Entry: entry,
		BreakCompliance: breakCompliance{
			MandatedMinutes: mandated,
			TakenMinutes:    entry.BreakMinutes,
			Compliant:       entry.BreakMinutes >= mandated,
		},
	})
}

func (h *Handler) GetCurrentTimeEntry(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	entry, err := h.repository.GetOpenTimeEntryForStaff(myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "not clocked in", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "ok", entry)
}

func (h *Handler) GetMyTimeEntries(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	query := r.URL.Query()
	if raw := query.Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "start must be an RFC 3339 timestamp")
			return
		}
		start = t
	}
	if raw := query.Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "end must be an RFC 3339 timestamp")
			return
		}
		end = t
	}

	entries, err := h.repository.GetTimeEntriesForStaff(myInfo.ID, start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", entries)
}

func (h *Handler) CreateManualTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID      int64     `json:"staffID" validate:"required"`
		ShiftID      *int64    `json:"shiftID"`
		ClockIn      time.Time `json:"clockIn" validate:"required"`
		ClockOut     time.Time `json:"clockOut" validate:"required"`
		BreakMinutes int       `json:"breakMinutes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member, err := h.repository.GetStaffByID(req.StaffID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if member.OrganizationID != callerOrg(r) {
		h.errorResponse(w, r, http.StatusNotFound, "staff member not found")
		return
	}

	if req.ShiftID != nil {
		shift, err := h.repository.GetShiftByID(*req.ShiftID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if shift.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "shift not found")
			return
		}
	}

	entry, err := timeclock.NewManualEntry(callerOrg(r), member.ID, req.ShiftID, req.ClockIn, req.ClockOut, req.BreakMinutes)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.CreateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "time entry created", entry)
}

func (h *Handler) GetPendingTimeEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repository.GetPendingTimeEntries(callerOrg(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", entries)
}

func (h *Handler) GetTimeEntry(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(TimeEntryCtx).(*domain.TimeEntry)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	// staff see only their own entries
	if entry.StaffID != myInfo.ID && !myInfo.Role.CanManage() {
		h.errorResponse(w, r, http.StatusNotFound, "time entry not found")
		return
	}

	h.successResponse(w, r, "ok", entry)
}

func (h *Handler) ApproveTimeEntry(w http.ResponseWriter, r *http.Request) {
	h.reviewTimeEntry(w, r, true)
}

func (h *Handler) RejectTimeEntry(w http.ResponseWriter, r *http.Request) {
	h.reviewTimeEntry(w, r, false)
}

func (h *Handler) reviewTimeEntry(w http.ResponseWriter, r *http.Request, approve bool) {
	entry := r.Context().Value(TimeEntryCtx).(*domain.TimeEntry)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	outcome := "rejected"
	review := timeclock.Reject
	if approve {
		outcome = "approved"
		review = timeclock.Approve
	}

	changed, err := review(entry)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	slog.Info("time entry reviewed", "entryID", entry.ID, "outcome", outcome, "reviewerID", myInfo.ID, "changed", changed)

	if !changed {
		h.successResponse(w, r, "time entry already "+outcome, entry)
		return
	}

	if err := h.repository.UpdateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	h.notify(domain.NotificationMessage{
		RecipientID: entry.StaffID,
		Type:        domain.NotificationTimeEntryResolved,
		Title:       "Time entry " + outcome,
		Message:     "Your time entry from " + entry.ClockIn.Format("2 Jan 15:04") + " was " + outcome + ".",
	})

	h.successResponse(w, r, "time entry "+outcome, entry)
}

func (h *Handler) ClearTimeEntryFlag(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(TimeEntryCtx).(*domain.TimeEntry)

	if err := timeclock.ClearFlag(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.UpdateTimeEntry(entry); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "flag cleared", entry)
}
