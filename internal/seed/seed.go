// Package seed fills a development database with plausible demo data:
// locations with geofences and break tiers, wage categories, a week of
// shifts, availability for every staff member, and monthly pay periods.
package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/repository"
	"github.com/rotaworks-dev/staffhub/backend/internal/utils"
)

func Staff(r *repository.Repository, organizationID int64, n int, password, emailDomain string) {
	cnt := 0
	for i := 0; i < n; i++ {
		role := domain.RoleEmployee
		if i == 0 {
			// always seed at least one manager
			role = domain.RoleManager
		}

		member, err := utils.GenerateRandomStaff(organizationID, role, password, emailDomain)
		if err != nil {
			slog.Error("failed to generate staff member", slog.String("error", err.Error()))
			continue
		}

		if err := r.CreateStaff(member); err != nil {
			slog.Error("failed to insert staff member", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}

	slog.Info("seeded staff", slog.Int("count", cnt))
}

var demoLocations = []domain.Location{
	{
		Name:                "Riverside Cafe",
		Coordinates:         &domain.Coordinates{Latitude: 51.5081, Longitude: -0.0759},
		ClockInRadiusMetres: 150,
		BreakTiers: []domain.BreakTier{
			{MinHours: 4, BreakMinutes: 15},
			{MinHours: 6, BreakMinutes: 30},
		},
	},
	{
		Name:                "High Street Store",
		Coordinates:         &domain.Coordinates{Latitude: 53.4794, Longitude: -2.2453},
		ClockInRadiusMetres: 100,
	},
	{
		// a location without coordinates exercises the fail-open geofence
		Name:                "Pop-up Stand",
		ClockInRadiusMetres: 150,
	},
}

var demoCategories = []domain.ShiftCategory{
	{Name: "Front of House", HourlyRate: decimal.NewFromFloat(11.50), Color: "#4a90d9"},
	{Name: "Kitchen", HourlyRate: decimal.NewFromFloat(13.00), Color: "#c0392b"},
	{Name: "Bar", HourlyRate: decimal.NewFromFloat(12.25), Color: "#27ae60"},
	{Name: "Night Premium", HourlyRate: decimal.NewFromFloat(15.50), Color: "#8e44ad"},
}

func LocationsAndCategories(r *repository.Repository, organizationID int64) {
	for i := range demoLocations {
		location := demoLocations[i]
		location.OrganizationID = organizationID
		location.IsActive = true
		if err := r.CreateLocation(&location); err != nil {
			slog.Error("failed to insert location", slog.String("error", err.Error()))
		}
	}

	for i := range demoCategories {
		category := demoCategories[i]
		category.OrganizationID = organizationID
		if err := r.CreateShiftCategory(&category); err != nil {
			slog.Error("failed to insert shift category", slog.String("error", err.Error()))
		}
	}

	slog.Info("seeded locations and categories")
}

// Shifts creates n open shifts per day for the next seven days, spread over
// the organization's locations and categories.
func Shifts(r *repository.Repository, organizationID int64, n int) {
	locations, err := r.GetAllLocations(organizationID)
	if err != nil {
		slog.Error("failed to load locations", slog.String("error", err.Error()))
		return
	}
	categories, err := r.GetAllShiftCategories(organizationID)
	if err != nil {
		slog.Error("failed to load shift categories", slog.String("error", err.Error()))
		return
	}
	if len(locations) == 0 || len(categories) == 0 {
		slog.Error("seed locations and categories first")
		return
	}

	titles := []string{"Morning", "Afternoon", "Evening", "Close"}
	cnt := 0
	today := time.Now().Truncate(24 * time.Hour)

	for day := 0; day < 7; day++ {
		for i := 0; i < n; i++ {
			startHour := 7 + rand.Intn(12)
			start := today.AddDate(0, 0, day+1).Add(time.Duration(startHour) * time.Hour)
			end := start.Add(time.Duration(4+rand.Intn(5)) * time.Hour)

			location := locations[rand.Intn(len(locations))]
			category := categories[rand.Intn(len(categories))]

			shift := &domain.Shift{
				OrganizationID:        organizationID,
				Title:                 titles[rand.Intn(len(titles))] + " - " + location.Name,
				StartTime:             start,
				EndTime:               end,
				ScheduledBreakMinutes: 30,
				LocationID:            &location.ID,
				CategoryID:            &category.ID,
				Status:                domain.ShiftStatusOpen,
			}

			if err := r.CreateShift(shift); err != nil {
				slog.Error("failed to insert shift", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
	}

	slog.Info("seeded shifts", slog.Int("count", cnt))
}

// Availability gives every staff member a handful of weekly slots.
func Availability(r *repository.Repository, organizationID int64) {
	members, err := r.GetAllStaff(organizationID)
	if err != nil {
		slog.Error("failed to load staff", slog.String("error", err.Error()))
		return
	}

	windows := [][2]string{{"07:00", "15:00"}, {"09:00", "17:00"}, {"12:00", "20:00"}, {"16:00", "23:00"}}
	cnt := 0

	for _, member := range members {
		days := rand.Perm(7)[:3+rand.Intn(3)]
		for _, day := range days {
			weekday := time.Weekday(day)
			window := windows[rand.Intn(len(windows))]

			slot := &domain.Availability{
				StaffID:   member.ID,
				Weekday:   &weekday,
				StartTime: window[0],
				EndTime:   window[1],
			}
			if err := r.CreateAvailability(slot); err != nil {
				slog.Error("failed to insert availability", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
	}

	slog.Info("seeded availability", slog.Int("count", cnt))
}

// PayPeriods creates monthly pay periods covering the previous n months, paid
// on the last day of each.
func PayPeriods(r *repository.Repository, organizationID int64, n int) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	cnt := 0
	for i := n; i >= 1; i-- {
		start := firstOfMonth.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)

		period := &domain.PayPeriod{
			OrganizationID: organizationID,
			Name:           start.Format("January 2006"),
			StartDate:      start,
			EndDate:        end,
			PayDate:        end,
			IsActive:       i == 1,
		}
		if err := r.CreatePayPeriod(period); err != nil {
			slog.Error("failed to insert pay period", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}

	slog.Info("seeded pay periods", slog.Int("count", cnt))
}
