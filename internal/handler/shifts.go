package handler

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/scheduler"
)

type shiftRequest struct {
	Title                 string                `json:"title" validate:"required"`
	StartTime             time.Time             `json:"startTime" validate:"required"`
	EndTime               time.Time             `json:"endTime" validate:"required"`
	ScheduledBreakMinutes int                   `json:"scheduledBreakMinutes" validate:"min=0"`
	LocationID            *int64                `json:"locationID"`
	CategoryID            *int64                `json:"categoryID"`
	Segments              []domain.ShiftSegment `json:"segments"`
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.Shift{
		OrganizationID:        callerOrg(r),
		Title:                 req.Title,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		ScheduledBreakMinutes: req.ScheduledBreakMinutes,
		LocationID:            req.LocationID,
		CategoryID:            req.CategoryID,
		Status:                domain.ShiftStatusOpen,
		Segments:              req.Segments,
	}
	shift.NormalizeOvernight()

	if err := shift.ValidateSegments(); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "shift created", shift)
}

// shiftView is a shift plus the schedule-grid annotation: whether the assignee
// has stated availability covering the shift start. Nil when unassigned.
type shiftView struct {
	*domain.Shift
	AssigneeAvailable *bool `json:"assigneeAvailable"`
}

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "start must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "end must be an RFC 3339 timestamp")
		return
	}
	if !end.After(start) {
		h.errorResponse(w, r, http.StatusBadRequest, "end must be after start")
		return
	}

	var locationID *int64
	if raw := query.Get("locationID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid location id")
			return
		}
		locationID = &id
	}

	shifts, err := h.repository.GetShiftsInRange(callerOrg(r), start, end, locationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	staffIDs := make([]int64, 0, len(shifts))
	seen := make(map[int64]bool)
	for _, shift := range shifts {
		if shift.AssignedStaffID != nil && !seen[*shift.AssignedStaffID] {
			seen[*shift.AssignedStaffID] = true
			staffIDs = append(staffIDs, *shift.AssignedStaffID)
		}
	}

	availability, err := h.repository.GetAvailabilityForStaffIDs(staffIDs)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	views := make([]shiftView, 0, len(shifts))
	for _, shift := range shifts {
		view := shiftView{Shift: shift}
		if shift.AssignedStaffID != nil {
			covered := false
			for _, slot := range availability[*shift.AssignedStaffID] {
				if slot.Covers(shift.StartTime) {
					covered = true
					break
				}
			}
			view.AssigneeAvailable = &covered
		}
		views = append(views, view)
	}

	h.successResponse(w, r, "ok", views)
}

// SuggestAssignments proposes assignees for the open shifts in a range, based
// on stated availability. Suggestions are advisory and persist nothing; the
// manager assigns through the normal endpoint.
func (h *Handler) SuggestAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start time.Time `json:"start" validate:"required"`
		End   time.Time `json:"end" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !req.End.After(req.Start) {
		h.errorResponse(w, r, http.StatusBadRequest, "end must be after start")
		return
	}

	shifts, err := h.repository.GetShiftsInRange(callerOrg(r), req.Start, req.End, nil)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	open := make([]*domain.Shift, 0, len(shifts))
	for _, shift := range shifts {
		if shift.Status == domain.ShiftStatusOpen {
			open = append(open, shift)
		}
	}
	if len(open) == 0 {
		h.successResponse(w, r, "no open shifts in range", []scheduler.Suggestion{})
		return
	}

	staff, err := h.repository.GetAllStaff(callerOrg(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	staffIDs := make([]int64, 0, len(staff))
	for _, member := range staff {
		staffIDs = append(staffIDs, member.ID)
	}
	availability, err := h.repository.GetAvailabilityForStaffIDs(staffIDs)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	suggester, err := scheduler.New(scheduler.DefaultParameters(), rand.New(rand.NewSource(time.Now().UnixNano())), staff, open, availability)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", suggester.Suggest())
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	h.successResponse(w, r, "ok", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if shift.Status == domain.ShiftStatusArchived {
		h.errorResponse(w, r, http.StatusConflict, "archived shifts cannot be edited")
		return
	}

	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift.Title = req.Title
	shift.StartTime = req.StartTime
	shift.EndTime = req.EndTime
	shift.ScheduledBreakMinutes = req.ScheduledBreakMinutes
	shift.LocationID = req.LocationID
	shift.CategoryID = req.CategoryID
	shift.Segments = req.Segments
	shift.NormalizeOvernight()

	if err := shift.ValidateSegments(); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "shift updated", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	hasEntries, err := h.repository.ShiftHasTimeEntries(shift.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if hasEntries {
		h.errorResponse(w, r, http.StatusConflict, "time has been logged against this shift, archive it instead")
		return
	}

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "shift deleted", nil)
}

func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		StaffID int64 `json:"staffID" validate:"required"`
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
		h.errorResponse(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if !member.IsActive {
		h.errorResponse(w, r, http.StatusConflict, "staff member is deactivated")
		return
	}

	if err := shift.Assign(member.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		h.fail(w, r, err)
		return
	}

	h.notify(domain.NotificationMessage{
		RecipientID: member.ID,
		Type:        domain.NotificationShiftAssigned,
		Title:       "New shift assigned",
		Message:     "You have been assigned the shift \"" + shift.Title + "\" starting " + shift.StartTime.Format(time.RFC1123) + ".",
	})

	h.successResponse(w, r, "shift assigned", shift)
}

func (h *Handler) ArchiveShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if shift.Status == domain.ShiftStatusArchived {
		h.successResponse(w, r, "shift already archived", shift)
		return
	}

	shift.Status = domain.ShiftStatusArchived

	if err := h.repository.UpdateShift(shift); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "shift archived", shift)
}
