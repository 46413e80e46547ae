package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// ListStaffStore defines the database operations needed for listing staff
type ListStaffStore interface {
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
}

// ListStaff returns the staff directory snapshot with training and
// leave records attached, ordered by surname.
func ListStaff(ctx context.Context, database ListStaffStore, logger *zap.Logger) ([]model.StaffMember, error) {
	logger.Debug("Starting listStaff")

	staff, err := database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	logger.Debug("Found staff", zap.Int("count", len(staff)))
	return staff, nil
}
