package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (h *Handler) CreateShiftCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"required"`
		HourlyRate string `json:"hourlyRate" validate:"required"`
		Color      string `json:"color" validate:"omitempty,hexcolor"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || rate.IsNegative() {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid hourly rate")
		return
	}

	category := &domain.ShiftCategory{
		OrganizationID: callerOrg(r),
		Name:           req.Name,
		HourlyRate:     rate,
		Color:          req.Color,
	}

	if err := h.repository.CreateShiftCategory(category); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "shift category created", category)
}

func (h *Handler) GetAllShiftCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repository.GetAllShiftCategories(callerOrg(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", categories)
}

func (h *Handler) GetShiftCategory(w http.ResponseWriter, r *http.Request) {
	category := r.Context().Value(CategoryCtx).(*domain.ShiftCategory)
	h.successResponse(w, r, "ok", category)
}

func (h *Handler) UpdateShiftCategory(w http.ResponseWriter, r *http.Request) {
	category := r.Context().Value(CategoryCtx).(*domain.ShiftCategory)

	var req struct {
		Name       *string `json:"name"`
		HourlyRate *string `json:"hourlyRate"`
		Color      *string `json:"color" validate:"omitempty,hexcolor"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil || rate.IsNegative() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid hourly rate")
			return
		}
		category.HourlyRate = rate
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := h.repository.UpdateShiftCategory(category); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "shift category updated", category)
}
