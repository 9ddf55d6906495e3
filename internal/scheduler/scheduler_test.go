package scheduler_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/scheduler"
)

// 2026-03-09 is a Monday.
func openShift(id int64, day, startHour, endHour int) *domain.Shift {
	base := time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
	return &domain.Shift{
		ID:        id,
		Title:     "Service",
		StartTime: base.Add(time.Duration(startHour) * time.Hour),
		EndTime:   base.Add(time.Duration(endHour) * time.Hour),
		Status:    domain.ShiftStatusOpen,
	}
}

func weekly(staffID int64, weekday time.Weekday, start, end string) *domain.Availability {
	return &domain.Availability{StaffID: staffID, Weekday: &weekday, StartTime: start, EndTime: end}
}

func activeStaff(ids ...int64) []*domain.Staff {
	staff := make([]*domain.Staff, len(ids))
	for i, id := range ids {
		staff[i] = &domain.Staff{ID: id, IsActive: true}
	}
	return staff
}

func TestNew_RejectsNonOpenShift(t *testing.T) {
	shift := openShift(1, 9, 9, 17)
	shift.Status = domain.ShiftStatusAssigned

	_, err := scheduler.New(scheduler.DefaultParameters(), rand.New(rand.NewSource(1)),
		activeStaff(7), []*domain.Shift{shift}, nil)
	assert.Error(t, err)
}

func TestSuggest_SingleCandidate(t *testing.T) {
	shifts := []*domain.Shift{
		openShift(1, 9, 9, 17),  // Monday
		openShift(2, 10, 9, 17), // Tuesday
	}
	availability := map[int64][]*domain.Availability{
		7: {weekly(7, time.Monday, "08:00", "18:00")},
		8: {weekly(8, time.Tuesday, "08:00", "18:00")},
	}

	s, err := scheduler.New(scheduler.DefaultParameters(), rand.New(rand.NewSource(1)),
		activeStaff(7, 8), shifts, availability)
	require.NoError(t, err)

	suggestions := s.Suggest()
	require.Len(t, suggestions, 2)

	// with one candidate per shift the search has only one full plan
	assert.Equal(t, int64(1), suggestions[0].ShiftID)
	require.NotNil(t, suggestions[0].StaffID)
	assert.Equal(t, int64(7), *suggestions[0].StaffID)

	assert.Equal(t, int64(2), suggestions[1].ShiftID)
	require.NotNil(t, suggestions[1].StaffID)
	assert.Equal(t, int64(8), *suggestions[1].StaffID)
}

func TestSuggest_NoCandidateLeavesShiftUnfilled(t *testing.T) {
	shifts := []*domain.Shift{openShift(1, 8, 9, 17)} // Sunday, nobody available
	availability := map[int64][]*domain.Availability{
		7: {weekly(7, time.Monday, "08:00", "18:00")},
	}

	s, err := scheduler.New(scheduler.DefaultParameters(), rand.New(rand.NewSource(1)),
		activeStaff(7), shifts, availability)
	require.NoError(t, err)

	suggestions := s.Suggest()
	require.Len(t, suggestions, 1)
	assert.Nil(t, suggestions[0].StaffID)
}

func TestSuggest_InactiveStaffNeverCandidates(t *testing.T) {
	shifts := []*domain.Shift{openShift(1, 9, 9, 17)}
	staff := []*domain.Staff{{ID: 7, IsActive: false}}
	availability := map[int64][]*domain.Availability{
		7: {weekly(7, time.Monday, "08:00", "18:00")},
	}

	s, err := scheduler.New(scheduler.DefaultParameters(), rand.New(rand.NewSource(1)),
		staff, shifts, availability)
	require.NoError(t, err)

	suggestions := s.Suggest()
	require.Len(t, suggestions, 1)
	assert.Nil(t, suggestions[0].StaffID)
}

func TestSuggest_FillsEveryCoverableShift(t *testing.T) {
	// two staff both available all Monday; four Monday shifts
	shifts := []*domain.Shift{
		openShift(1, 9, 8, 12),
		openShift(2, 9, 12, 16),
		openShift(3, 9, 16, 20),
		openShift(4, 9, 8, 16),
	}
	availability := map[int64][]*domain.Availability{
		7: {weekly(7, time.Monday, "00:00", "23:59")},
		8: {weekly(8, time.Monday, "00:00", "23:59")},
	}

	s, err := scheduler.New(scheduler.DefaultParameters(), rand.New(rand.NewSource(42)),
		activeStaff(7, 8), shifts, availability)
	require.NoError(t, err)

	for _, suggestion := range s.Suggest() {
		require.NotNil(t, suggestion.StaffID, "shift %d left unfilled", suggestion.ShiftID)
	}
}
