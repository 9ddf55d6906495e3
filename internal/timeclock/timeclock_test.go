package timeclock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/timeclock"
)

var window = timeclock.Window{EarlyMinutes: 15, GraceMinutes: 5}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 9, hour, minute, 0, 0, time.UTC)
}

func TestFlagFor(t *testing.T) {
	nineAM := at(9, 0)

	tests := []struct {
		name    string
		clockIn time.Time
		start   *time.Time
		want    domain.ClockInFlag
	}{
		{"no scheduled shift", at(8, 0), nil, domain.ClockInFlagNone},
		{"on time", at(9, 0), &nineAM, domain.ClockInFlagNone},
		{"two minutes early", at(8, 58), &nineAM, domain.ClockInFlagNone},
		{"at the early boundary", at(8, 45), &nineAM, domain.ClockInFlagNone},
		{"beyond the early window", at(8, 40), &nineAM, domain.ClockInFlagEarly},
		{"within grace", at(9, 4), &nineAM, domain.ClockInFlagNone},
		{"at the grace boundary", at(9, 5), &nineAM, domain.ClockInFlagNone},
		{"past grace", at(9, 20), &nineAM, domain.ClockInFlagLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeclock.FlagFor(tt.clockIn, tt.start, window))
		})
	}
}

func TestNewEntry(t *testing.T) {
	start := at(9, 0)
	coords := &domain.Coordinates{Latitude: 51.5, Longitude: -0.08}
	distance := 42.0

	entry := timeclock.NewEntry(1, 7, nil, at(8, 20), &start, window, coords, &distance)

	assert.Equal(t, domain.TimeEntryStateActive, entry.State)
	assert.Equal(t, domain.ClockInFlagEarly, entry.Flag)
	assert.Equal(t, coords, entry.ClockInCoordinates)
	assert.Equal(t, &distance, entry.DistanceMetres)
	assert.False(t, entry.Manual)
}

func TestBreakLifecycle(t *testing.T) {
	entry := timeclock.NewEntry(1, 7, nil, at(9, 0), nil, window, nil, nil)

	require.NoError(t, timeclock.StartBreak(entry, at(12, 0)))
	assert.Equal(t, domain.TimeEntryStateOnBreak, entry.State)

	// a second break cannot start while one is running
	err := timeclock.StartBreak(entry, at(12, 5))
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, timeclock.EndBreak(entry, at(12, 30)))
	assert.Equal(t, domain.TimeEntryStateActive, entry.State)
	assert.Equal(t, 30, entry.BreakMinutes)
	assert.Nil(t, entry.BreakStart)

	// the total accumulates across breaks
	require.NoError(t, timeclock.StartBreak(entry, at(15, 0)))
	require.NoError(t, timeclock.EndBreak(entry, at(15, 15)))
	assert.Equal(t, 45, entry.BreakMinutes)

	err = timeclock.EndBreak(entry, at(16, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEndBreak_BeforeStart(t *testing.T) {
	entry := timeclock.NewEntry(1, 7, nil, at(9, 0), nil, window, nil, nil)
	require.NoError(t, timeclock.StartBreak(entry, at(12, 0)))

	err := timeclock.EndBreak(entry, at(11, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClockOut(t *testing.T) {
	entry := timeclock.NewEntry(1, 7, nil, at(9, 0), nil, window, nil, nil)

	require.NoError(t, timeclock.ClockOut(entry, at(17, 0)))
	assert.Equal(t, domain.TimeEntryStatePending, entry.State)
	require.NotNil(t, entry.ClockOut)

	err := timeclock.ClockOut(entry, at(18, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClockOut_WhileOnBreak(t *testing.T) {
	entry := timeclock.NewEntry(1, 7, nil, at(9, 0), nil, window, nil, nil)
	require.NoError(t, timeclock.StartBreak(entry, at(12, 0)))

	err := timeclock.ClockOut(entry, at(17, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.TimeEntryStateOnBreak, entry.State)
}

func TestNetHours(t *testing.T) {
	// 8 hour span with the mandated 60 minute break leaves 7 net hours
	entry := timeclock.NewEntry(1, 7, nil, at(9, 0), nil, window, nil, nil)
	require.NoError(t, timeclock.StartBreak(entry, at(12, 0)))
	require.NoError(t, timeclock.EndBreak(entry, at(13, 0)))
	require.NoError(t, timeclock.ClockOut(entry, at(17, 0)))

	assert.InDelta(t, 7.0, entry.NetHours(), 1e-9)
}

func TestNetHours_FlooredAtZero(t *testing.T) {
	entry, err := timeclock.NewManualEntry(1, 7, nil, at(9, 0), at(9, 30), 120)
	require.NoError(t, err)
	assert.Zero(t, entry.NetHours())
}

func TestNewManualEntry(t *testing.T) {
	entry, err := timeclock.NewManualEntry(1, 7, nil, at(9, 0), at(17, 0), 30)
	require.NoError(t, err)
	assert.Equal(t, domain.TimeEntryStatePending, entry.State)
	assert.True(t, entry.Manual)
	assert.Equal(t, 30, entry.BreakMinutes)
}

func TestNewManualEntry_OvernightRoll(t *testing.T) {
	entry, err := timeclock.NewManualEntry(1, 7, nil, at(22, 0), at(6, 0), 0)
	require.NoError(t, err)
	require.NotNil(t, entry.ClockOut)
	assert.Equal(t, 10, entry.ClockOut.Day())
	assert.InDelta(t, 8.0, entry.NetHours(), 1e-9)
}

func TestNewManualEntry_NegativeBreak(t *testing.T) {
	_, err := timeclock.NewManualEntry(1, 7, nil, at(9, 0), at(17, 0), -10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApprove(t *testing.T) {
	entry, err := timeclock.NewManualEntry(1, 7, nil, at(9, 0), at(17, 0), 0)
	require.NoError(t, err)

	changed, err := timeclock.Approve(entry)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.TimeEntryStateApproved, entry.State)

	// re-approving is a no-op, not an error
	changed, err = timeclock.Approve(entry)
	require.NoError(t, err)
	assert.False(t, changed)

	// flipping an approved entry to rejected conflicts
	_, err = timeclock.Reject(entry)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApprove_OpenEntry(t *testing.T) {
	entry := timeclock.NewEntry(1, 7, nil, at(9, 0), nil, window, nil, nil)

	_, err := timeclock.Approve(entry)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClearFlag(t *testing.T) {
	start := at(9, 0)
	entry := timeclock.NewEntry(1, 7, nil, at(9, 30), &start, window, nil, nil)
	require.Equal(t, domain.ClockInFlagLate, entry.Flag)

	require.NoError(t, timeclock.ClearFlag(entry))
	assert.True(t, entry.FlagCleared)

	unflagged := timeclock.NewEntry(1, 7, nil, at(9, 0), &start, window, nil, nil)
	assert.ErrorIs(t, timeclock.ClearFlag(unflagged), domain.ErrValidation)
}
