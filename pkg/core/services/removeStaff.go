package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// RemoveStaffResult contains the outcome of taking a staff member off a
// shift.
type RemoveStaffResult struct {
	RotaID      string
	ShiftID     string
	StaffID     string
	ShiftStatus roster.ShiftStatus
	Version     int
}

// RemoveStaffStore defines the database operations needed for removing staff
type RemoveStaffStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// RemoveStaff takes a staff member off a shift and persists the updated
// rota. Statuses are recomputed, so removing an overriding assignment
// can clear a Conflict.
func RemoveStaff(
	ctx context.Context,
	database RemoveStaffStore,
	logger *zap.Logger,
	rotaID string,
	shiftID string,
	staffID string,
) (*RemoveStaffResult, error) {
	logger.Debug("Starting removeStaff",
		zap.String("rota_id", rotaID),
		zap.String("shift_id", shiftID),
		zap.String("staff_id", staffID))

	// Step 1: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}
	expectedVersion := rota.Version

	// Step 2: Snapshot the staff directory so the recompute sees the
	// same eligibility data assignments were made against
	staff, err := database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	// Step 3: Remove the assignment
	assembler := roster.NewAssembler(rota, staff)
	if err := assembler.Remove(shiftID, staffID); err != nil {
		return nil, fmt.Errorf("failed to remove staff: %w", err)
	}

	// Step 4: Persist the updated rota
	if err := database.ReplaceRota(ctx, rota, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to save rota: %w", err)
	}

	shift, _ := rota.ShiftByID(shiftID)
	logger.Info("Removed staff from shift",
		zap.String("rota_id", rota.ID),
		zap.String("shift_id", shiftID),
		zap.String("staff_id", staffID),
		zap.String("shift_status", string(shift.Status)),
		zap.Int("version", rota.Version))

	return &RemoveStaffResult{
		RotaID:      rota.ID,
		ShiftID:     shiftID,
		StaffID:     staffID,
		ShiftStatus: shift.Status,
		Version:     rota.Version,
	}, nil
}
