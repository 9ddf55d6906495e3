package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/utils"
)

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username          string  `json:"username" validate:"required,min=3,max=50"`
		FullName          string  `json:"fullName" validate:"required"`
		Email             string  `json:"email" validate:"required,email"`
		Role              string  `json:"role" validate:"required,oneof=EMPLOYEE MANAGER ADMIN"`
		PayType           string  `json:"payType" validate:"required,oneof=HOURLY SALARIED"`
		DefaultHourlyRate string  `json:"defaultHourlyRate"`
		MonthlySalary     string  `json:"monthlySalary"`
		HomeLocationID    *int64  `json:"homeLocationID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rate, salary := decimal.Zero, decimal.Zero
	var err error
	if req.DefaultHourlyRate != "" {
		if rate, err = decimal.NewFromString(req.DefaultHourlyRate); err != nil || rate.IsNegative() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid default hourly rate")
			return
		}
	}
	if req.MonthlySalary != "" {
		if salary, err = decimal.NewFromString(req.MonthlySalary); err != nil || salary.IsNegative() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid monthly salary")
			return
		}
	}

	// new accounts start with a generated password delivered out of band
	password := utils.GenerateRandomPassword(12)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	member := &domain.Staff{
		OrganizationID:    callerOrg(r),
		Username:          req.Username,
		PasswordHash:      string(passwordHash),
		FullName:          req.FullName,
		Email:             req.Email,
		Role:              domain.Role(req.Role),
		PayType:           domain.PayType(req.PayType),
		DefaultHourlyRate: rate,
		MonthlySalary:     salary,
		HomeLocationID:    req.HomeLocationID,
	}

	if err := h.repository.CreateStaff(member); err != nil {
		h.fail(w, r, err)
		return
	}

	h.notify(domain.NotificationMessage{
		RecipientID: member.ID,
		Type:        domain.NotificationAccountCreated,
		Title:       "Welcome to StaffHub",
		Message:     "Your account has been created. Username: " + member.Username + ", temporary password: " + password,
	})

	h.successResponse(w, r, "staff member created", member)
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.repository.GetAllStaff(callerOrg(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", members)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffInfoCtx).(*domain.Staff)
	h.successResponse(w, r, "ok", member)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		FullName          *string `json:"fullName"`
		Email             *string `json:"email" validate:"omitempty,email"`
		Role              *string `json:"role" validate:"omitempty,oneof=EMPLOYEE MANAGER ADMIN"`
		PayType           *string `json:"payType" validate:"omitempty,oneof=HOURLY SALARIED"`
		DefaultHourlyRate *string `json:"defaultHourlyRate"`
		MonthlySalary     *string `json:"monthlySalary"`
		HomeLocationID    *int64  `json:"homeLocationID"`
		IsActive          *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FullName != nil {
		member.FullName = *req.FullName
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Role != nil {
		member.Role = domain.Role(*req.Role)
	}
	if req.PayType != nil {
		member.PayType = domain.PayType(*req.PayType)
	}
	if req.DefaultHourlyRate != nil {
		rate, err := decimal.NewFromString(*req.DefaultHourlyRate)
		if err != nil || rate.IsNegative() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid default hourly rate")
			return
		}
		member.DefaultHourlyRate = rate
	}
	if req.MonthlySalary != nil {
		salary, err := decimal.NewFromString(*req.MonthlySalary)
		if err != nil || salary.IsNegative() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid monthly salary")
			return
		}
		member.MonthlySalary = salary
	}
	if req.HomeLocationID != nil {
		member.HomeLocationID = req.HomeLocationID
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateStaff(member); err != nil {
		h.fail(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member updated", member)
}

func (h *Handler) GetStaffAvailability(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	slots, err := h.repository.GetAvailabilityForStaff(member.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", slots)
}
