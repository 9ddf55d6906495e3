package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

func pendingRequest(shiftID int64, requestType domain.SwapRequestType) *domain.SwapRequest {
	return &domain.SwapRequest{
		ID:          10,
		ShiftID:     shiftID,
		RequesterID: 7,
		Type:        requestType,
		Status:      domain.SwapRequestStatusPending,
	}
}

func TestSwapRequestApprove_Drop(t *testing.T) {
	shift := shiftAt(9, 17)
	require.NoError(t, shift.Assign(7))
	request := pendingRequest(shift.ID, domain.SwapRequestTypeDrop)

	require.NoError(t, request.Approve(shift, 2, nil))

	assert.Equal(t, domain.SwapRequestStatusApproved, request.Status)
	require.NotNil(t, request.ResolvedByID)
	assert.Equal(t, int64(2), *request.ResolvedByID)
	assert.NotNil(t, request.ResolvedAt)

	// an approved drop reopens the shift
	assert.Equal(t, domain.ShiftStatusOpen, shift.Status)
	assert.Nil(t, shift.AssignedStaffID)
}

func TestSwapRequestApprove_Swap(t *testing.T) {
	shift := shiftAt(9, 17)
	require.NoError(t, shift.Assign(7))
	request := pendingRequest(shift.ID, domain.SwapRequestTypeSwap)

	replacement := int64(9)
	require.NoError(t, request.Approve(shift, 2, &replacement))

	assert.Equal(t, domain.SwapRequestStatusApproved, request.Status)
	require.NotNil(t, request.ReplacementStaffID)
	assert.Equal(t, replacement, *request.ReplacementStaffID)
	assert.True(t, shift.IsAssignedTo(replacement))
}

func TestSwapRequestApprove_SwapValidation(t *testing.T) {
	t.Run("replacement is required", func(t *testing.T) {
		shift := shiftAt(9, 17)
		request := pendingRequest(shift.ID, domain.SwapRequestTypeSwap)

		err := request.Approve(shift, 2, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, domain.SwapRequestStatusPending, request.Status)
	})

	t.Run("requester cannot replace themselves", func(t *testing.T) {
		shift := shiftAt(9, 17)
		request := pendingRequest(shift.ID, domain.SwapRequestTypeSwap)

		requester := request.RequesterID
		err := request.Approve(shift, 2, &requester)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("archived shift blocks the swap", func(t *testing.T) {
		shift := shiftAt(9, 17)
		shift.Status = domain.ShiftStatusArchived
		request := pendingRequest(shift.ID, domain.SwapRequestTypeSwap)

		replacement := int64(9)
		err := request.Approve(shift, 2, &replacement)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, domain.SwapRequestStatusPending, request.Status)
	})
}

func TestSwapRequestApprove_WrongShift(t *testing.T) {
	shift := shiftAt(9, 17)
	request := pendingRequest(shift.ID+1, domain.SwapRequestTypeDrop)

	err := request.Approve(shift, 2, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSwapRequestApprove_AlreadyResolved(t *testing.T) {
	shift := shiftAt(9, 17)
	request := pendingRequest(shift.ID, domain.SwapRequestTypeDrop)
	request.Status = domain.SwapRequestStatusRejected

	err := request.Approve(shift, 2, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSwapRequestReject(t *testing.T) {
	shift := shiftAt(9, 17)
	require.NoError(t, shift.Assign(7))
	request := pendingRequest(shift.ID, domain.SwapRequestTypeDrop)

	require.NoError(t, request.Reject(2))
	assert.Equal(t, domain.SwapRequestStatusRejected, request.Status)
	// rejection never touches the shift
	assert.True(t, shift.IsAssignedTo(7))

	assert.ErrorIs(t, request.Reject(2), domain.ErrConflict)
}
