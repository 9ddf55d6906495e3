package handler

import (
	"net/http"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

type locationRequest struct {
	Name                string              `json:"name" validate:"required"`
	Latitude            *float64            `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude           *float64            `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ClockInRadiusMetres float64             `json:"clockInRadiusMetres" validate:"min=0"`
	BreakTiers          []domain.BreakTier  `json:"breakTiers" validate:"dive"`
}

func (h *Handler) locationFromRequest(w http.ResponseWriter, r *http.Request, req *locationRequest) (*domain.Coordinates, bool) {
	// coordinates are all-or-nothing; a lone latitude is a client bug
	if (req.Latitude == nil) != (req.Longitude == nil) {
		h.errorResponse(w, r, http.StatusBadRequest, "latitude and longitude must be provided together")
		return nil, false
	}

	for _, tier := range req.BreakTiers {
		if tier.MinHours < 0 || tier.BreakMinutes < 0 {
			h.errorResponse(w, r, http.StatusBadRequest, "break tiers must not be negative")
			return nil, false
		}
	}

	if req.Latitude != nil {
		return &domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}, true
	}
	return nil, true
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	coords, ok := h.locationFromRequest(w, r, &req)
	if !ok {
		return
	}

	radius := req.ClockInRadiusMetres
	if radius == 0 {
		radius = h.config.Geofence.DefaultRadiusMetres
	}

	location := &domain.Location{
		OrganizationID:      callerOrg(r),
		Name:                req.Name,
		Coordinates:         coords,
		ClockInRadiusMetres: radius,
		BreakTiers:          req.BreakTiers,
	}

	if err := h.repository.CreateLocation(location); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "location created", location)
}

func (h *Handler) GetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.repository.GetAllLocations(callerOrg(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", locations)
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)
	h.successResponse(w, r, "ok", location)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	var req struct {
		locationRequest
		IsActive *bool `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	coords, ok := h.locationFromRequest(w, r, &req.locationRequest)
	if !ok {
		return
	}

	location.Name = req.Name
	location.Coordinates = coords
	location.ClockInRadiusMetres = req.ClockInRadiusMetres
	location.BreakTiers = req.BreakTiers
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateLocation(location); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "location updated", location)
}
