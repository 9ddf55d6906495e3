// Package payroll rolls approved time entries up into per-staff and
// per-location cost breakdowns. Aggregation always recomputes from source;
// there is no incrementally maintained ledger, so a report is exactly as good
// as the approved-entries snapshot it was computed from.
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rotaworks-dev/staffhub/backend/internal/config"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Rates carries the statutory percentages applied to hourly gross pay.
type Rates struct {
	// HolidayAccrualPercent is the statutory holiday-pay reserve, e.g. 12.07.
	HolidayAccrualPercent decimal.Decimal
	// EmployerContribPercent applies to gross pay above the monthly threshold.
	EmployerContribPercent decimal.Decimal
	// EmployerContribMonthlyThreshold is pro-rated for windows shorter than a
	// calendar month.
	EmployerContribMonthlyThreshold decimal.Decimal
}

func RatesFromConfig(cfg *config.Config) (Rates, error) {
	holiday, err := decimal.NewFromString(cfg.Payroll.HolidayAccrualPercent)
	if err != nil {
		return Rates{}, fmt.Errorf("invalid holiday accrual percent: %w", err)
	}
	contrib, err := decimal.NewFromString(cfg.Payroll.EmployerContribPercent)
	if err != nil {
		return Rates{}, fmt.Errorf("invalid employer contribution percent: %w", err)
	}
	threshold, err := decimal.NewFromString(cfg.Payroll.EmployerContribMonthlyThreshold)
	if err != nil {
		return Rates{}, fmt.Errorf("invalid employer contribution threshold: %w", err)
	}

	return Rates{
		HolidayAccrualPercent:           holiday,
		EmployerContribPercent:          contrib,
		EmployerContribMonthlyThreshold: threshold,
	}, nil
}

// Window is a half-open [Start, End) reporting window, either a calendar
// month or an explicit pay period.
type Window struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthWindow parses a YYYY-MM month into its calendar window.
func MonthWindow(month string) (Window, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return Window{}, fmt.Errorf("%w: month must be in YYYY-MM format", domain.ErrValidation)
	}
	return Window{
		Label: month,
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}, nil
}

// PeriodWindow builds the window for a pay period; the end date is inclusive.
func PeriodWindow(p *domain.PayPeriod) Window {
	return Window{
		Label: p.Name,
		Start: p.StartDate,
		End:   p.EndDate.AddDate(0, 0, 1),
	}
}

// MonthFraction is the share of calendar months the window covers, summed day
// by day so windows spanning month boundaries pro-rate correctly. A full
// calendar month yields exactly 1.
func (w Window) MonthFraction() decimal.Decimal {
	fraction := decimal.Zero
	for day := w.Start; day.Before(w.End); day = day.AddDate(0, 0, 1) {
		daysInMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()).
			AddDate(0, 1, -1).Day()
		fraction = fraction.Add(decimal.New(1, 0).Div(decimal.NewFromInt(int64(daysInMonth))))
	}
	return fraction
}

// Previous is the baseline window for the variance figure. A window aligned to
// a calendar month steps back one whole month, keeping the comparison
// month-over-month even though adjacent months differ in length. Any other
// window slides back by its own length, since an arbitrary pay period has no
// canonical predecessor.
func (w Window) Previous() Window {
	monthStart := time.Date(w.Start.Year(), w.Start.Month(), 1, 0, 0, 0, 0, w.Start.Location())
	if w.Start.Equal(monthStart) && w.End.Equal(w.Start.AddDate(0, 1, 0)) {
		return Window{Start: w.Start.AddDate(0, -1, 0), End: w.Start}
	}
	return Window{Start: w.Start.Add(-w.End.Sub(w.Start)), End: w.Start}
}

// Attribution is a slice of an entry's net hours priced at one wage rate.
// Split-segment shifts produce one attribution per segment.
type Attribution struct {
	Hours decimal.Decimal
	Rate  decimal.Decimal
}

// WorkedItem is one approved time entry with its wage attribution resolved.
type WorkedItem struct {
	StaffID      int64
	LocationID   *int64
	Attributions []Attribution
}

// ResolveAttributions prices an entry's net hours. Segments supersede the
// shift-level category when present: hours are split across segments in
// proportion to segment duration, each at its own category rate. Otherwise the
// shift category's rate applies, and an uncategorized entry falls back to the
// staff default rate.
func ResolveAttributions(netHours float64, shift *domain.Shift, categoryRates map[int64]decimal.Decimal, staffDefault decimal.Decimal) []Attribution {
	hours := decimal.NewFromFloat(netHours)

	if shift == nil {
		return []Attribution{{Hours: hours, Rate: staffDefault}}
	}

	if len(shift.Segments) > 0 {
		var total time.Duration
		for _, seg := range shift.Segments {
			total += seg.EndTime.Sub(seg.StartTime)
		}
		if total > 0 {
			attrs := make([]Attribution, 0, len(shift.Segments))
			for _, seg := range shift.Segments {
				share := decimal.NewFromInt(int64(seg.EndTime.Sub(seg.StartTime))).
					Div(decimal.NewFromInt(int64(total)))
				rate, ok := categoryRates[seg.CategoryID]
				if !ok {
					rate = staffDefault
				}
				attrs = append(attrs, Attribution{Hours: hours.Mul(share), Rate: rate})
			}
			return attrs
		}
	}

	if shift.CategoryID != nil {
		if rate, ok := categoryRates[*shift.CategoryID]; ok {
			return []Attribution{{Hours: hours, Rate: rate}}
		}
	}

	return []Attribution{{Hours: hours, Rate: staffDefault}}
}

// StaffCost is the per-staff roll-up.
type StaffCost struct {
	StaffID              int64           `json:"staffID"`
	FullName             string          `json:"fullName"`
	PayType              domain.PayType  `json:"payType"`
	Hours                decimal.Decimal `json:"hours"`
	GrossPay             decimal.Decimal `json:"grossPay"`
	HolidayAccrual       decimal.Decimal `json:"holidayAccrual"`
	EmployerContribution decimal.Decimal `json:"employerContribution"`
	TotalCost            decimal.Decimal `json:"totalCost"`
}

// LocationCost is the per-location roll-up of hourly work. Salaried cost has
// no location attribution and is reported only per staff.
type LocationCost struct {
	LocationID *int64          `json:"locationID"`
	Hours      decimal.Decimal `json:"hours"`
	GrossPay   decimal.Decimal `json:"grossPay"`
}

// Report is the full aggregation result for one window.
type Report struct {
	Window          Window          `json:"window"`
	Staff           []StaffCost     `json:"staff"`
	Locations       []LocationCost  `json:"locations"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	PreviousTotal   decimal.Decimal `json:"previousTotal"`
	VariancePercent decimal.Decimal `json:"variancePercent"`
}

type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Aggregate computes the report body for one window. staff must contain every
// staff member whose cost belongs in the window (hourly staff with items, and
// all active salaried staff); items carry the approved hourly work.
func (c *Calculator) Aggregate(window Window, staff []*domain.Staff, items []WorkedItem) *Report {
	fraction := window.MonthFraction()
	threshold := c.rates.EmployerContribMonthlyThreshold.Mul(fraction)

	hoursByStaff := make(map[int64]decimal.Decimal)
	grossByStaff := make(map[int64]decimal.Decimal)
	locationIndex := make(map[int64]int)
	locations := make([]LocationCost, 0)
	var unattributed *LocationCost

	for _, item := range items {
		itemHours := decimal.Zero
		itemGross := decimal.Zero
		for _, attr := range item.Attributions {
			itemHours = itemHours.Add(attr.Hours)
			itemGross = itemGross.Add(attr.Hours.Mul(attr.Rate))
		}
		hoursByStaff[item.StaffID] = hoursByStaff[item.StaffID].Add(itemHours)
		grossByStaff[item.StaffID] = grossByStaff[item.StaffID].Add(itemGross)

		switch {
		case item.LocationID == nil:
			if unattributed == nil {
				unattributed = &LocationCost{}
			}
			unattributed.Hours = unattributed.Hours.Add(itemHours)
			unattributed.GrossPay = unattributed.GrossPay.Add(itemGross)
		default:
			idx, ok := locationIndex[*item.LocationID]
			if !ok {
				idx = len(locations)
				locationIndex[*item.LocationID] = idx
				id := *item.LocationID
				locations = append(locations, LocationCost{LocationID: &id})
			}
			locations[idx].Hours = locations[idx].Hours.Add(itemHours)
			locations[idx].GrossPay = locations[idx].GrossPay.Add(itemGross)
		}
	}
	if unattributed != nil {
		locations = append(locations, *unattributed)
	}

	report := &Report{Window: window, Locations: locations}

	for _, member := range staff {
		cost := StaffCost{
			StaffID:  member.ID,
			FullName: member.FullName,
			PayType:  member.PayType,
			Hours:    hoursByStaff[member.ID],
		}

		switch member.PayType {
		case domain.PayTypeSalaried:
			// Salaried gross is the window's pro-rated salary; hours are
			// informational only and never scale it.
			cost.GrossPay = member.MonthlySalary.Mul(fraction)
		default:
			cost.GrossPay = grossByStaff[member.ID]
			cost.HolidayAccrual = cost.GrossPay.
				Mul(c.rates.HolidayAccrualPercent).Div(hundred)
			if excess := cost.GrossPay.Sub(threshold); excess.IsPositive() {
				cost.EmployerContribution = excess.
					Mul(c.rates.EmployerContribPercent).Div(hundred)
			}
		}

		cost.TotalCost = cost.GrossPay.Add(cost.HolidayAccrual).Add(cost.EmployerContribution)
		report.TotalCost = report.TotalCost.Add(cost.TotalCost)
		report.Staff = append(report.Staff, cost)
	}

	return report
}

// Variance is the month-over-month change in percent. A zero previous total
// reports 0 rather than dividing by zero.
func Variance(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
