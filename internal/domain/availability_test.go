package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func TestAvailabilityCovers(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 10, 30, 0, 0, time.UTC)
	weekday := time.Monday
	oneOff := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot domain.Availability
		at   time.Time
		want bool
	}{
		{"weekly slot covers its weekday", domain.Availability{Weekday: &weekday, StartTime: "09:00", EndTime: "17:00"}, monday, true},
		{"weekly slot misses other weekdays", domain.Availability{Weekday: &weekday, StartTime: "09:00", EndTime: "17:00"}, monday.AddDate(0, 0, 1), false},
		{"start is inclusive", domain.Availability{Weekday: &weekday, StartTime: "10:30", EndTime: "17:00"}, monday, true},
		{"end is exclusive", domain.Availability{Weekday: &weekday, StartTime: "09:00", EndTime: "10:30"}, monday, false},
		{"one-off slot covers its date", domain.Availability{Date: &oneOff, StartTime: "09:00", EndTime: "17:00"}, monday, true},
		{"one-off slot misses other dates", domain.Availability{Date: &oneOff, StartTime: "09:00", EndTime: "17:00"}, monday.AddDate(0, 0, 7), false},
		{"neither weekday nor date", domain.Availability{StartTime: "09:00", EndTime: "17:00"}, monday, false},
		{"malformed times never cover", domain.Availability{Weekday: &weekday, StartTime: "morning", EndTime: "17:00"}, monday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Covers(tt.at))
		})
	}
}
