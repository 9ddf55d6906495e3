package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func shiftAt(startHour, endHour int) *domain.Shift {
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	return &domain.Shift{
		ID:        1,
		Title:     "Morning service",
		StartTime: day.Add(time.Duration(startHour) * time.Hour),
		EndTime:   day.Add(time.Duration(endHour) * time.Hour),
		Status:    domain.ShiftStatusOpen,
	}
}

func TestNormalizeOvernight(t *testing.T) {
	day := shiftAt(9, 17)
	day.NormalizeOvernight()
	assert.Equal(t, 9, day.EndTime.Day(), "a daytime shift stays untouched")

	night := shiftAt(22, 6)
	night.NormalizeOvernight()
	assert.Equal(t, 10, night.EndTime.Day())
	assert.True(t, night.EndTime.After(night.StartTime))
}

func TestValidateSegments(t *testing.T) {
	base := shiftAt(9, 17)
	seg := func(startHour, endHour int, categoryID int64) domain.ShiftSegment {
		return domain.ShiftSegment{
			StartTime:  base.StartTime.Truncate(24 * time.Hour).Add(time.Duration(startHour) * time.Hour),
			EndTime:    base.StartTime.Truncate(24 * time.Hour).Add(time.Duration(endHour) * time.Hour),
			CategoryID: categoryID,
		}
	}

	tests := []struct {
		name     string
		segments []domain.ShiftSegment
		wantErr  bool
	}{
		{"no segments", nil, false},
		{"adjacent segments covering the shift", []domain.ShiftSegment{seg(9, 13, 1), seg(13, 17, 2)}, false},
		{"partial coverage with a gap", []domain.ShiftSegment{seg(9, 11, 1), seg(14, 17, 2)}, false},
		{"segment ends before it starts", []domain.ShiftSegment{seg(13, 13, 1)}, true},
		{"segment starts before the shift", []domain.ShiftSegment{seg(8, 12, 1)}, true},
		{"segment ends after the shift", []domain.ShiftSegment{seg(12, 18, 1)}, true},
		{"overlapping segments", []domain.ShiftSegment{seg(9, 14, 1), seg(13, 17, 2)}, true},
		{"contained segment", []domain.ShiftSegment{seg(9, 17, 1), seg(11, 12, 2)}, true},
		{"missing wage category", []domain.ShiftSegment{seg(9, 13, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift := shiftAt(9, 17)
			shift.Segments = tt.segments
			err := shift.ValidateSegments()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShiftAssign(t *testing.T) {
	shift := shiftAt(9, 17)

	require.NoError(t, shift.Assign(7))
	assert.Equal(t, domain.ShiftStatusAssigned, shift.Status)
	assert.True(t, shift.IsAssignedTo(7))
	assert.False(t, shift.IsAssignedTo(8))

	// reassigning a non-open shift keeps its status
	shift.Status = domain.ShiftStatusConfirmed
	require.NoError(t, shift.Assign(8))
	assert.Equal(t, domain.ShiftStatusConfirmed, shift.Status)
	assert.True(t, shift.IsAssignedTo(8))
}

func TestShiftAssign_Archived(t *testing.T) {
	shift := shiftAt(9, 17)
	shift.Status = domain.ShiftStatusArchived

	err := shift.Assign(7)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, shift.AssignedStaffID)
}

func TestShiftRelease(t *testing.T) {
	shift := shiftAt(9, 17)
	require.NoError(t, shift.Assign(7))

	shift.Release()
	assert.Equal(t, domain.ShiftStatusOpen, shift.Status)
	assert.Nil(t, shift.AssignedStaffID)
	assert.False(t, shift.IsAssignedTo(7))
}
