package handler

import (
	"net/http"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (h *Handler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	var req struct {
		Weekday   *int    `json:"weekday" validate:"omitempty,min=0,max=6"`
		Date      *string `json:"date"`
		StartTime string  `json:"startTime" validate:"required"`
		EndTime   string  `json:"endTime" validate:"required"`
		Notes     string  `json:"notes" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// a slot is recurring weekly or one-off, never both
	if (req.Weekday == nil) == (req.Date == nil) {
		h.errorResponse(w, r, http.StatusBadRequest, "provide exactly one of weekday or date")
		return
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "startTime must be HH:MM")
		return
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "endTime must be HH:MM")
		return
	}
	if !end.After(start) {
		h.errorResponse(w, r, http.StatusBadRequest, "endTime must be after startTime")
		return
	}

	slot := &domain.Availability{
		StaffID:   myInfo.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}
	if req.Weekday != nil {
		wd := time.Weekday(*req.Weekday)
		slot.Weekday = &wd
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		slot.Date = &date
	}

	if err := h.repository.CreateAvailability(slot); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "availability saved", slot)
}

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	slots, err := h.repository.GetAvailabilityForStaff(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", slots)
}

func (h *Handler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	slotID, err := idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid availability id")
		return
	}

	slot, err := h.repository.GetAvailabilityByID(slotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if slot.StaffID != myInfo.ID {
		h.errorResponse(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if err := h.repository.DeleteAvailability(slot.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability removed", nil)
}
