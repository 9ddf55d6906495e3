package handler

import (
	"net/http"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func (h *Handler) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	var req struct {
		Type    string `json:"type" validate:"required,oneof=swap drop"`
		Message string `json:"message" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// only the current assignee can ask to swap or drop a shift
	if !shift.IsAssignedTo(myInfo.ID) {
		h.errorResponse(w, r, http.StatusForbidden, "you are not assigned to this shift")
		return
	}
	if shift.Status == domain.ShiftStatusArchived {
		h.errorResponse(w, r, http.StatusConflict, "shift is archived")
		return
	}

	request := &domain.SwapRequest{
		OrganizationID: shift.OrganizationID,
		ShiftID:        shift.ID,
		RequesterID:    myInfo.ID,
		Type:           domain.SwapRequestType(req.Type),
		Message:        req.Message,
		Status:         domain.SwapRequestStatusPending,
	}

	if err := h.repository.CreateSwapRequest(request); err != nil {
		h.fail(w, r, err)
		return
	}

	managers, err := h.repository.GetManagers(shift.OrganizationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	for _, manager := range managers {
		h.notify(domain.NotificationMessage{
			RecipientID: manager.ID,
			Type:        domain.NotificationSwapRequestCreated,
			Title:       "New " + req.Type + " request",
			Message:     myInfo.FullName + " asked to " + req.Type + " the shift \"" + shift.Title + "\".",
		})
	}

	h.successResponse(w, r, "request submitted", request)
}

func (h *Handler) GetSwapRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	// staff see their own requests, managers see the whole organization
	var requesterID *int64
	if !myInfo.Role.CanManage() {
		requesterID = &myInfo.ID
	}

	requests, err := h.repository.GetSwapRequests(callerOrg(r), requesterID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", requests)
}

func (h *Handler) ResolveSwapRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	var req struct {
		Approve            bool   `json:"approve"`
		ReplacementStaffID *int64 `json:"replacementStaffID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.repository.GetShiftByID(request.ShiftID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if req.Approve {
		if req.ReplacementStaffID != nil {
			replacement, err := h.repository.GetStaffByID(*req.ReplacementStaffID)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			if replacement.OrganizationID != callerOrg(r) {
				h.errorResponse(w, r, http.StatusNotFound, "resource not found")
				return
			}
			if !replacement.IsActive {
				h.errorResponse(w, r, http.StatusConflict, "replacement staff member is deactivated")
				return
			}
		}
		if err := request.Approve(shift, myInfo.ID, req.ReplacementStaffID); err != nil {
			h.fail(w, r, err)
			return
		}
	} else {
		if err := request.Reject(myInfo.ID); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	if err := h.repository.ResolveSwapRequest(request, shift); err != nil {
		h.fail(w, r, err)
		return
	}

	outcome := "rejected"
	if request.Status == domain.SwapRequestStatusApproved {
		outcome = "approved"
	}
	h.notify(domain.NotificationMessage{
		RecipientID: request.RequesterID,
		Type:        domain.NotificationSwapRequestResolved,
		Title:       "Request " + outcome,
		Message:     "Your " + string(request.Type) + " request for \"" + shift.Title + "\" was " + outcome + ".",
	})
	if request.Status == domain.SwapRequestStatusApproved && request.ReplacementStaffID != nil {
		h.notify(domain.NotificationMessage{
			RecipientID: *request.ReplacementStaffID,
			Type:        domain.NotificationShiftAssigned,
			Title:       "New shift assigned",
			Message:     "You have been assigned the shift \"" + shift.Title + "\" through an approved swap.",
		})
	}

	h.successResponse(w, r, "request "+outcome, request)
}
