package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/payroll"
)

func ukRates() payroll.Rates {
	return payroll.Rates{
		HolidayAccrualPercent:           decimal.RequireFromString("12.07"),
		EmployerContribPercent:          decimal.RequireFromString("13.8"),
		EmployerContribMonthlyThreshold: decimal.RequireFromString("758"),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthWindow(t *testing.T) {
	window, err := payroll.MonthWindow("2026-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), window.End)

	_, err = payroll.MonthWindow("February 2026")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPeriodWindow_EndInclusive(t *testing.T) {
	period := &domain.PayPeriod{
		Name:      "March 2026",
		StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}

	window := payroll.PeriodWindow(period)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), window.End)
}

func TestMonthFraction(t *testing.T) {
	full, err := payroll.MonthWindow("2026-04")
	require.NoError(t, err)
	assert.True(t, full.MonthFraction().Round(10).Equal(decimal.NewFromInt(1)),
		"a full calendar month must pro-rate to exactly 1")

	half := payroll.Window{
		Start: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.April, 16, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, half.MonthFraction().Round(10).Equal(d("0.5")))
}

func TestWindowPrevious(t *testing.T) {
	t.Run("month window steps back one calendar month", func(t *testing.T) {
		march, err := payroll.MonthWindow("2026-03")
		require.NoError(t, err)

		previous := march.Previous()
		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), previous.Start)
		assert.Equal(t, march.Start, previous.End)
		// February is shorter than March, but it still pro-rates to one month
		assert.True(t, previous.MonthFraction().Round(10).Equal(decimal.NewFromInt(1)),
			"fraction: %s", previous.MonthFraction())
	})

	t.Run("january window crosses the year boundary", func(t *testing.T) {
		january, err := payroll.MonthWindow("2026-01")
		require.NoError(t, err)

		previous := january.Previous()
		assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), previous.Start)
	})

	t.Run("month-aligned pay period steps back one calendar month", func(t *testing.T) {
		window := payroll.PeriodWindow(&domain.PayPeriod{
			Name:      "March 2026",
			StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		})

		previous := window.Previous()
		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), previous.Start)
	})

	t.Run("arbitrary window slides back by its own length", func(t *testing.T) {
		window := payroll.Window{
			Start: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.March, 29, 0, 0, 0, 0, time.UTC),
		}

		previous := window.Previous()
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), previous.Start)
		assert.Equal(t, window.Start, previous.End)
	})
}

func TestResolveAttributions(t *testing.T) {
	rates := map[int64]decimal.Decimal{
		1: d("12"),
		2: d("15"),
	}
	staffDefault := d("10")

	t.Run("no shift falls back to staff default", func(t *testing.T) {
		attrs := payroll.ResolveAttributions(8, nil, rates, staffDefault)
		require.Len(t, attrs, 1)
		assert.True(t, attrs[0].Rate.Equal(staffDefault))
	})

	t.Run("shift category rate", func(t *testing.T) {
		categoryID := int64(2)
		shift := &domain.Shift{CategoryID: &categoryID}
		attrs := payroll.ResolveAttributions(8, shift, rates, staffDefault)
		require.Len(t, attrs, 1)
		assert.True(t, attrs[0].Rate.Equal(d("15")))
	})

	t.Run("segments supersede the shift category", func(t *testing.T) {
		categoryID := int64(2)
		start := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
		shift := &domain.Shift{
			CategoryID: &categoryID,
			StartTime:  start,
			EndTime:    start.Add(8 * time.Hour),
			Segments: []domain.ShiftSegment{
				{StartTime: start, EndTime: start.Add(6 * time.Hour), CategoryID: 1},
				{StartTime: start.Add(6 * time.Hour), EndTime: start.Add(8 * time.Hour), CategoryID: 2},
			},
		}

		// 7 net hours split 6:2 across the segments
		attrs := payroll.ResolveAttributions(7, shift, rates, staffDefault)
		require.Len(t, attrs, 2)
		assert.True(t, attrs[0].Hours.Equal(d("5.25")), "got %s", attrs[0].Hours)
		assert.True(t, attrs[0].Rate.Equal(d("12")))
		assert.True(t, attrs[1].Hours.Equal(d("1.75")), "got %s", attrs[1].Hours)
		assert.True(t, attrs[1].Rate.Equal(d("15")))
	})
}

func TestAggregate_Hourly(t *testing.T) {
	window, err := payroll.MonthWindow("2026-03")
	require.NoError(t, err)

	staff := []*domain.Staff{{
		ID:       7,
		FullName: "Amelia Patel",
		PayType:  domain.PayTypeHourly,
	}}
	items := []payroll.WorkedItem{{
		StaffID:      7,
		Attributions: []payroll.Attribution{{Hours: d("100"), Rate: d("12")}},
	}}

	report := payroll.NewCalculator(ukRates()).Aggregate(window, staff, items)

	require.Len(t, report.Staff, 1)
	cost := report.Staff[0]
	assert.True(t, cost.GrossPay.Equal(d("1200")), "gross: %s", cost.GrossPay)
	// 1200 * 12.07% = 144.84
	assert.True(t, cost.HolidayAccrual.Equal(d("144.84")), "holiday: %s", cost.HolidayAccrual)
	// (1200 - 758) * 13.8% = 60.996; full month so no threshold pro-rating
	assert.True(t, cost.EmployerContribution.Round(4).Equal(d("60.996")), "contrib: %s", cost.EmployerContribution)
	assert.True(t, cost.TotalCost.Round(4).Equal(d("1405.836")), "total: %s", cost.TotalCost)
}

func TestAggregate_BelowContributionThreshold(t *testing.T) {
	window, err := payroll.MonthWindow("2026-03")
	require.NoError(t, err)

	staff := []*domain.Staff{{ID: 7, PayType: domain.PayTypeHourly}}
	items := []payroll.WorkedItem{{
		StaffID:      7,
		Attributions: []payroll.Attribution{{Hours: d("50"), Rate: d("12")}},
	}}

	report := payroll.NewCalculator(ukRates()).Aggregate(window, staff, items)
	assert.True(t, report.Staff[0].EmployerContribution.IsZero())
}

func TestAggregate_Salaried(t *testing.T) {
	window, err := payroll.MonthWindow("2026-03")
	require.NoError(t, err)

	staff := []*domain.Staff{{
		ID:            9,
		PayType:       domain.PayTypeSalaried,
		MonthlySalary: d("2600"),
	}}

	report := payroll.NewCalculator(ukRates()).Aggregate(window, staff, nil)

	require.Len(t, report.Staff, 1)
	cost := report.Staff[0]
	assert.True(t, cost.GrossPay.Round(4).Equal(d("2600")), "gross: %s", cost.GrossPay)
	// salaried pay accrues holiday as part of salary, no separate reserve
	assert.True(t, cost.HolidayAccrual.IsZero())
	assert.True(t, cost.EmployerContribution.IsZero())
}

func TestAggregate_SalariedProRated(t *testing.T) {
	// first half of April: 15 of 30 days
	window := payroll.Window{
		Start: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.April, 16, 0, 0, 0, 0, time.UTC),
	}

	staff := []*domain.Staff{{
		ID:            9,
		PayType:       domain.PayTypeSalaried,
		MonthlySalary: d("2600"),
	}}

	report := payroll.NewCalculator(ukRates()).Aggregate(window, staff, nil)
	assert.True(t, report.Staff[0].GrossPay.Round(4).Equal(d("1300")), "gross: %s", report.Staff[0].GrossPay)
}

func TestAggregate_LocationRollup(t *testing.T) {
	window, err := payroll.MonthWindow("2026-03")
	require.NoError(t, err)

	locA, locB := int64(1), int64(2)
	staff := []*domain.Staff{{ID: 7, PayType: domain.PayTypeHourly}}
	items := []payroll.WorkedItem{
		{StaffID: 7, LocationID: &locA, Attributions: []payroll.Attribution{{Hours: d("10"), Rate: d("12")}}},
		{StaffID: 7, LocationID: &locA, Attributions: []payroll.Attribution{{Hours: d("5"), Rate: d("12")}}},
		{StaffID: 7, LocationID: &locB, Attributions: []payroll.Attribution{{Hours: d("8"), Rate: d("15")}}},
		{StaffID: 7, Attributions: []payroll.Attribution{{Hours: d("2"), Rate: d("10")}}},
	}

	report := payroll.NewCalculator(ukRates()).Aggregate(window, staff, items)

	require.Len(t, report.Locations, 3)
	assert.True(t, report.Locations[0].Hours.Equal(d("15")))
	assert.True(t, report.Locations[0].GrossPay.Equal(d("180")))
	assert.True(t, report.Locations[1].GrossPay.Equal(d("120")))
	// the unattributed bucket comes last with a nil location
	assert.Nil(t, report.Locations[2].LocationID)
	assert.True(t, report.Locations[2].Hours.Equal(d("2")))
}

func TestVariance(t *testing.T) {
	assert.True(t, payroll.Variance(d("1100"), d("1000")).Equal(d("10")))
	assert.True(t, payroll.Variance(d("900"), d("1000")).Equal(d("-10")))
	// no previous data reports zero instead of dividing by zero
	assert.True(t, payroll.Variance(d("500"), decimal.Zero).IsZero())
}
