package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// AutoFillRotaResult contains the rota after the auto-fill pass and the
// report describing what the pass did.
type AutoFillRotaResult struct {
	RotaID  string
	Rota    *roster.Rota
	Report  *roster.AutoFillReport
	Version int
}

// AutoFillRotaStore defines the database operations needed for auto-filling a rota
type AutoFillRotaStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// AutoFillRota runs the scheduler pass over a rota's open slots and
// persists the outcome when the pass commits. A pass that cannot fully
// staff the week leaves the stored rota untouched unless partial fills
// are allowed.
func AutoFillRota(
	ctx context.Context,
	database AutoFillRotaStore,
	logger *zap.Logger,
	rotaID string,
	opts roster.AISchedulerOptions,
) (*AutoFillRotaResult, error) {
	logger.Debug("Starting autoFillRota",
		zap.String("rota_id", rotaID),
		zap.String("priority", string(opts.OptimizationPriority)),
		zap.Bool("allow_partial_fill", opts.AllowPartialFill),
		zap.Int("max_iterations", opts.MaxIterations))

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
	logger.Debug("Found staff", zap.Int("count", len(staff)))

	// Step 3: Run the scheduler pass
	logger.Info("Running auto-fill pass", zap.String("rota_id", rota.ID))
	filled, report, err := roster.AutoFill(rota, staff, opts)
	if err != nil {
		return nil, fmt.Errorf("auto-fill failed: %w", err)
	}

	for _, gap := range report.Gaps {
		logger.Warn("Auto-fill gap", zap.String("gap", gap))
	}

	// Step 4: Persist only when the pass committed
	if report.Applied {
		if err := database.ReplaceRota(ctx, filled, expectedVersion); err != nil {
			return nil, fmt.Errorf("failed to save rota: %w", err)
		}
	}

	logger.Info("Auto-fill completed",
		zap.String("rota_id", rota.ID),
		zap.Bool("applied", report.Applied),
		zap.Int("assigned", report.Assigned),
		zap.Int("iterations", report.Iterations),
		zap.Int("open_slots", report.OpenSlots))

	return &AutoFillRotaResult{
		RotaID:  filled.ID,
		Rota:    filled,
		Report:  report,
		Version: filled.Version,
	}, nil
}
