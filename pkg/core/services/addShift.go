package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// AddShiftResult contains the shift added to an existing rota.
type AddShiftResult struct {
	RotaID  string
	Shift   *roster.Shift
	Version int
}

// AddShiftStore defines the database operations needed for adding a shift
type AddShiftStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// AddShift creates an extra unfilled shift on an existing rota, for
// cover outside the generated week pattern. Each date and slot pairing
// may only exist once per rota.
func AddShift(
	ctx context.Context,
	database AddShiftStore,
	logger *zap.Logger,
	rotaID string,
	date time.Time,
	slot model.TimeSlot,
	requirement roster.SlotRequirement,
) (*AddShiftResult, error) {
	logger.Debug("Starting addShift",
		zap.String("rota_id", rotaID),
		zap.Time("date", date),
		zap.String("slot", string(slot)),
		zap.Int("total", requirement.Total),
		zap.Int("leaders", requirement.ShiftLeader),
		zap.Int("drivers", requirement.Driver))

	// Step 1: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}
	expectedVersion := rota.Version

	// Step 2: Add the shift
	assembler := roster.NewAssembler(rota, nil)
	shift, err := assembler.AddShift(date, slot, requirement)
	if err != nil {
		return nil, fmt.Errorf("failed to add shift: %w", err)
	}

	// Step 3: Persist the updated rota
	if err := database.ReplaceRota(ctx, rota, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to save rota: %w", err)
	}

	logger.Info("Added shift to rota",
		zap.String("rota_id", rota.ID),
		zap.String("shift_id", shift.ID),
		zap.Time("date", shift.Date),
		zap.String("slot", string(shift.Time)),
		zap.Int("version", rota.Version))

	return &AddShiftResult{
		RotaID:  rota.ID,
		Shift:   shift,
		Version: rota.Version,
	}, nil
}
