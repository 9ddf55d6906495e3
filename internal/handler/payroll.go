package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/payroll"
	"github.com/rotaworks-dev/staffhub/backend/internal/repository"
)

func (h *Handler) GetPayPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.repository.GetAllPayPeriods(callerOrg(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", periods)
}

// reportWindow resolves the requested window: a YYYY-MM month or an explicit
// pay period, exactly one of the two.
func (h *Handler) reportWindow(w http.ResponseWriter, r *http.Request) (payroll.Window, bool) {
	query := r.URL.Query()
	month := query.Get("month")
	periodParam := query.Get("payPeriodID")

	if (month == "") == (periodParam == "") {
		h.errorResponse(w, r, http.StatusBadRequest, "provide exactly one of month or payPeriodID")
		return payroll.Window{}, false
	}

	if month != "" {
		window, err := payroll.MonthWindow(month)
		if err != nil {
			h.fail(w, r, err)
			return payroll.Window{}, false
		}
		return window, true
	}

	periodID, err := strconv.ParseInt(periodParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid pay period id")
		return payroll.Window{}, false
	}
	period, err := h.repository.GetPayPeriodByID(periodID)
	if err != nil {
		h.fail(w, r, err)
		return payroll.Window{}, false
	}
	if period.OrganizationID != callerOrg(r) {
		h.errorResponse(w, r, http.StatusNotFound, "pay period not found")
		return payroll.Window{}, false
	}

	return payroll.PeriodWindow(period), true
}

func (h *Handler) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	window, ok := h.reportWindow(w, r)
	if !ok {
		return
	}

	var locationID *int64
	if raw := r.URL.Query().Get("locationID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid location id")
			return
		}
		locationID = &id
	}

	orgID := callerOrg(r)

	report, err := h.buildReport(orgID, window, locationID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	previousReport, err := h.buildReport(orgID, window.Previous(), locationID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report.PreviousTotal = previousReport.TotalCost
	report.VariancePercent = payroll.Variance(report.TotalCost, previousReport.TotalCost)

	h.successResponse(w, r, "ok", report)
}

func (h *Handler) buildReport(orgID int64, window payroll.Window, locationID *int64) (*payroll.Report, error) {
	work, err := h.repository.GetApprovedWorkInWindow(orgID, window.Start, window.End, locationID)
	if err != nil {
		return nil, err
	}

	categoryRates, err := h.repository.GetShiftCategoryRates(orgID)
	if err != nil {
		return nil, err
	}

	allStaff, err := h.repository.GetAllStaff(orgID)
	if err != nil {
		return nil, err
	}
	staffByID := make(map[int64]*domain.Staff, len(allStaff))
	for _, member := range allStaff {
		staffByID[member.ID] = member
	}

	items := make([]payroll.WorkedItem, 0, len(work))
	withWork := make(map[int64]bool)
	for _, item := range work {
		member := staffByID[item.Entry.StaffID]
		if member == nil {
			continue
		}
		// salaried staff cost from salary, their hourly work carries no rate
		if member.PayType == domain.PayTypeSalaried {
			items = append(items, zeroRatedItem(item))
			withWork[member.ID] = true
			continue
		}

		attrs := payroll.ResolveAttributions(item.Entry.NetHours(), item.Shift, categoryRates, member.DefaultHourlyRate)
		worked := payroll.WorkedItem{StaffID: member.ID, Attributions: attrs}
		if item.Shift != nil {
			worked.LocationID = item.Shift.LocationID
		}
		items = append(items, worked)
		withWork[member.ID] = true
	}

	// the report covers hourly staff with work in the window plus every
	// active salaried member, whose cost accrues regardless of entries
	included := make([]*domain.Staff, 0)
	for _, member := range allStaff {
		if withWork[member.ID] || (member.PayType == domain.PayTypeSalaried && member.IsActive) {
			included = append(included, member)
		}
	}

	return payroll.NewCalculator(h.payrollRates).Aggregate(window, included, items), nil
}

// zeroRatedItem keeps a salaried member's hours visible in the roll-ups
// without pricing them.
func zeroRatedItem(item *repository.ApprovedWork) payroll.WorkedItem {
	worked := payroll.WorkedItem{
		StaffID: item.Entry.StaffID,
		Attributions: []payroll.Attribution{
			{Hours: decimal.NewFromFloat(item.Entry.NetHours())},
		},
	}
	if item.Shift != nil {
		worked.LocationID = item.Shift.LocationID
	}
	return worked
}
