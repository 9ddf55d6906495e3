package domain

import (
	"fmt"
	"time"
)

type SwapRequestType string

const (
	// SwapRequestTypeSwap asks to hand the shift to a replacement picked by
	// the resolving manager. There is no automatic peer matching.
	SwapRequestTypeSwap SwapRequestType = "swap"
	// SwapRequestTypeDrop asks to relinquish the shift back to the open pool.
	SwapRequestTypeDrop SwapRequestType = "drop"
)

type SwapRequestStatus string

const (
	SwapRequestStatusPending  SwapRequestStatus = "PENDING"
	SwapRequestStatusApproved SwapRequestStatus = "APPROVED"
	SwapRequestStatusRejected SwapRequestStatus = "REJECTED"
)

type SwapRequest struct {
	ID             int64             `json:"id"`
	OrganizationID int64             `json:"organizationID"`
	ShiftID        int64             `json:"shiftID"`
	RequesterID    int64             `json:"requesterID"`
	Type           SwapRequestType   `json:"type"`
	Message        string            `json:"message"`
	Status         SwapRequestStatus `json:"status"`
	ResolvedByID   *int64            `json:"resolvedByID"`
	// ReplacementStaffID is the manager-chosen replacement, set only when a
	// swap is approved.
	ReplacementStaffID *int64    `json:"replacementStaffID"`
	CreatedAt          time.Time `json:"createdAt"`
	ResolvedAt         *time.Time `json:"resolvedAt"`
	Version            int32     `json:"-"`
}

// Approve applies the variant-specific effect of an approval to the shift:
// a drop reopens it, a swap reassigns it to the given replacement. The caller
// persists both rows in one transaction.
func (sr *SwapRequest) Approve(shift *Shift, resolverID int64, replacementStaffID *int64) error {
	if sr.Status != SwapRequestStatusPending {
		return fmt.Errorf("%w: request already %s", ErrConflict, sr.Status)
	}
	if shift.ID != sr.ShiftID {
		return fmt.Errorf("%w: request does not belong to this shift", ErrValidation)
	}

	switch sr.Type {
	case SwapRequestTypeDrop:
		shift.Release()
	case SwapRequestTypeSwap:
		if replacementStaffID == nil {
			return fmt.Errorf("%w: approving a swap requires a replacement staff member", ErrValidation)
		}
		if *replacementStaffID == sr.RequesterID {
			return fmt.Errorf("%w: replacement must differ from the requester", ErrValidation)
		}
		if err := shift.Assign(*replacementStaffID); err != nil {
			return err
		}
		sr.ReplacementStaffID = replacementStaffID
	default:
		return fmt.Errorf("%w: unknown request type %q", ErrValidation, sr.Type)
	}

	now := time.Now()
	sr.Status = SwapRequestStatusApproved
	sr.ResolvedByID = &resolverID
	sr.ResolvedAt = &now
	return nil
}

// Reject closes the request without touching the shift.
func (sr *SwapRequest) Reject(resolverID int64) error {
	if sr.Status != SwapRequestStatusPending {
		return fmt.Errorf("%w: request already %s", ErrConflict, sr.Status)
	}
	now := time.Now()
	sr.Status = SwapRequestStatusRejected
	sr.ResolvedByID = &resolverID
	sr.ResolvedAt = &now
	return nil
}
