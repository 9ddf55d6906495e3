package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

// CreateSwapRequest inserts a pending request. The partial unique index on
// (shift_id, requester_id) for pending rows rejects a second request while an
// earlier one on the same shift is still unresolved.
func (r *Repository) CreateSwapRequest(request *domain.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (organization_id, shift_id, requester_id, type, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		request.OrganizationID,
		request.ShiftID,
		request.RequesterID,
		request.Type,
		request.Message,
		request.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.CreatedAt, &request.Version); err != nil {
		return conflictOn(err, "swap_requests_one_pending_per_shift_requester", "a pending request already exists for this shift")
	}

	return nil
}

func scanSwapRequest(scan func(dst ...any) error) (*domain.SwapRequest, error) {
	request := &domain.SwapRequest{}

	dst := []any{
		&request.ID,
		&request.OrganizationID,
		&request.ShiftID,
		&request.RequesterID,
		&request.Type,
		&request.Message,
		&request.Status,
		&request.ResolvedByID,
		&request.ReplacementStaffID,
		&request.CreatedAt,
		&request.ResolvedAt,
		&request.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

const swapRequestColumns = `id, organization_id, shift_id, requester_id, type, message, status, resolved_by_id, replacement_staff_id, created_at, resolved_at, version`

func (r *Repository) GetSwapRequestByID(id int64) (*domain.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + ` FROM swap_requests WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanSwapRequest(row.Scan)
}

// GetSwapRequests lists an organization's requests, optionally restricted to
// one requester (staff see only their own).
func (r *Repository) GetSwapRequests(organizationID int64, requesterID *int64) ([]*domain.SwapRequest, error) {
	query := `
		SELECT ` + swapRequestColumns + `
		FROM swap_requests
		WHERE organization_id = $1 AND ($2::bigint IS NULL OR requester_id = $2)
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.SwapRequest, 0)
	for rows.Next() {
		request, err := scanSwapRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ResolveSwapRequest persists a resolution and its shift effect in one
// transaction. Two guards make concurrent resolutions safe: the request row
// only matches while still PENDING, and the shift write is a version CAS.
// Whichever manager loses the race gets a conflict and must reload.
func (r *Repository) ResolveSwapRequest(request *domain.SwapRequest, shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE swap_requests
		SET
			status = $1,
			resolved_by_id = $2,
			replacement_staff_id = $3,
			resolved_at = $4,
			version = version + 1
		WHERE id = $5 AND status = 'PENDING'
		RETURNING version
	`

	args := []any{request.Status, request.ResolvedByID, request.ReplacementStaffID, request.ResolvedAt, request.ID}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&request.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: request has already been resolved", domain.ErrConflict)
		}
		return err
	}

	// Rejections leave the shift untouched.
	if request.Status == domain.SwapRequestStatusApproved {
		segments, err := json.Marshal(shift.Segments)
		if err != nil {
			return err
		}

		query = `
			UPDATE shifts
			SET
				assigned_staff_id = $1,
				status = $2,
				segments = $3,
				version = version + 1
			WHERE id = $4 AND version = $5
			RETURNING version
		`

		args = []any{shift.AssignedStaffID, shift.Status, segments, shift.ID, shift.Version}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: shift assignment changed concurrently, retry with fresh state", domain.ErrConflict)
			}
			return err
		}
	}

	return tx.Commit()
}
