package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// SuggestStaffResult contains the ranked candidates for one open slot
type SuggestStaffResult struct {
	RotaID     string
	ShiftID    string
	Role       model.Role
	Suggestion *roster.Suggestion
}

// SuggestStaffStore defines the database operations needed for suggesting staff
type SuggestStaffStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
}

// SuggestStaff ranks the eligible staff for a role on one shift. With a
// limit of zero the default suggestion depth applies.
func SuggestStaff(
	ctx context.Context,
	database SuggestStaffStore,
	logger *zap.Logger,
	rotaID string,
	shiftID string,
	role model.Role,
	opts roster.AISchedulerOptions,
	limit int,
) (*SuggestStaffResult, error) {
	logger.Debug("Starting suggestStaff",
		zap.String("rota_id", rotaID),
		zap.String("shift_id", shiftID),
		zap.String("role", string(role)))

	// Step 1: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}

	// Step 2: Snapshot the staff directory
	staff, err := database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	logger.Debug("Found staff", zap.Int("count", len(staff)))

	// Step 3: Rank candidates for the slot
	suggestion, err := roster.Suggest(rota, shiftID, role, staff, opts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion: %w", err)
	}

	logger.Info("Built suggestion",
		zap.String("rota_id", rota.ID),
		zap.String("shift_id", shiftID),
		zap.String("role", string(role)),
		zap.Int("suggested", len(suggestion.Suggested)),
		zap.Int("alternatives", len(suggestion.Alternatives)))

	return &SuggestStaffResult{
		RotaID:     rota.ID,
		ShiftID:    shiftID,
		Role:       role,
		Suggestion: suggestion,
	}, nil
}
