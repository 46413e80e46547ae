package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// DefaultAssignedBy marks assignments made without an explicit actor.
const DefaultAssignedBy = "manual"

// AssignStaffResult contains the outcome of placing one staff member on
// a shift, including any soft warnings worth showing the operator.
type AssignStaffResult struct {
	RotaID      string
	ShiftID     string
	StaffID     string
	Role        model.Role
	ShiftStatus roster.ShiftStatus
	Warnings    []string
	Version     int
}

// AssignStaffStore defines the database operations needed for assigning staff
type AssignStaffStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// AssignStaff places a staff member on a shift in the given role and
// persists the updated rota. Override skips the eligibility and
// capacity gates; the shift then carries a Conflict status rather than
// silently hiding the breach.
func AssignStaff(
	ctx context.Context,
	database AssignStaffStore,
	logger *zap.Logger,
	rotaID string,
	shiftID string,
	staffID string,
	role model.Role,
	override bool,
	assignedBy string,
) (*AssignStaffResult, error) {
	if assignedBy == "" {
		assignedBy = DefaultAssignedBy
	}
	logger.Debug("Starting assignStaff",
		zap.String("rota_id", rotaID),
		zap.String("shift_id", shiftID),
		zap.String("staff_id", staffID),
		zap.String("role", string(role)),
		zap.Bool("override", override),
		zap.String("assigned_by", assignedBy))

	// Step 1: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}
	expectedVersion := rota.Version

	// Step 2: Snapshot the staff directory
	staff, err := database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	// Step 3: Apply the assignment
	assembler := roster.NewAssembler(rota, staff)
	if err := assembler.Assign(shiftID, staffID, role, assignedBy, override); err != nil {
		return nil, fmt.Errorf("failed to assign staff: %w", err)
	}

	shift, _ := rota.ShiftByID(shiftID)

	// Collect soft warnings for the operator. After an override the
	// evaluation also reports the rules that were pushed past.
	var warnings []string
	for _, member := range staff {
		if member.ID != staffID {
			continue
		}
		eval := roster.CheckEligibility(member, shift, role, rota)
		warnings = eval.Warnings
		for _, violation := range eval.Violations {
			logger.Warn("Assignment overrode eligibility rule",
				zap.String("rule", violation.Rule),
				zap.String("description", violation.Description))
			warnings = append(warnings, violation.Description)
		}
		break
	}

	// Step 4: Persist the updated rota
	if err := database.ReplaceRota(ctx, rota, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to save rota: %w", err)
	}

	logger.Info("Assigned staff to shift",
		zap.String("rota_id", rota.ID),
		zap.String("shift_id", shiftID),
		zap.String("staff_id", staffID),
		zap.String("role", string(role)),
		zap.String("shift_status", string(shift.Status)),
		zap.Int("version", rota.Version))

	return &AssignStaffResult{
		RotaID:      rota.ID,
		ShiftID:     shiftID,
		StaffID:     staffID,
		Role:        role,
		ShiftStatus: shift.Status,
		Warnings:    warnings,
		Version:     rota.Version,
	}, nil
}
