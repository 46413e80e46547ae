package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// Publish gate failures. Wrapped with the rota id when returned.
var (
	ErrAlreadyPublished    = errors.New("rota is already published")
	ErrRotaArchived        = errors.New("rota is archived")
	ErrUnresolvedConflicts = errors.New("rota has unresolved conflicts")
)

// PublishRotaResult contains the published rota's state plus the
// staffing summary shown to the operator.
type PublishRotaResult struct {
	RotaID           string
	Status           roster.RotaStatus
	Version          int
	FullyStaffed     int
	PartiallyStaffed int
	Unfilled         int
}

// PublishRotaStore defines the database operations needed for publishing a rota
type PublishRotaStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// PublishRota moves a draft rota to published. Conflicted shifts block
// the publish; under-staffed shifts do not, since a short-handed week
// still has to go out, but they are reported in the result.
func PublishRota(
	ctx context.Context,
	database PublishRotaStore,
	logger *zap.Logger,
	rotaID string,
) (*PublishRotaResult, error) {
	logger.Debug("Starting publishRota", zap.String("rota_id", rotaID))

	// Step 1: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}
	expectedVersion := rota.Version

	// Step 2: Gate on lifecycle state and conflicts
	switch rota.Status {
	case roster.RotaPublished:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPublished, rota.ID)
	case roster.RotaArchived:
		return nil, fmt.Errorf("%w: %s", ErrRotaArchived, rota.ID)
	}

	counts := countByStatus(rota)
	if conflicts := counts[roster.StatusConflict]; conflicts > 0 {
		return nil, fmt.Errorf("%w: %d conflicted shifts on rota %s", ErrUnresolvedConflicts, conflicts, rota.ID)
	}
	if understaffed := counts[roster.StatusUnfilled] + counts[roster.StatusPartiallyStaffed]; understaffed > 0 {
		logger.Warn("Publishing under-staffed rota",
			zap.String("rota_id", rota.ID),
			zap.Int("unfilled", counts[roster.StatusUnfilled]),
			zap.Int("partially_staffed", counts[roster.StatusPartiallyStaffed]))
	}

	// Step 3: Persist the state change
	rota.Status = roster.RotaPublished
	if err := database.ReplaceRota(ctx, rota, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to save rota: %w", err)
	}

	logger.Info("Published rota",
		zap.String("rota_id", rota.ID),
		zap.Time("week_start", rota.StartDate),
		zap.Int("version", rota.Version))

	return &PublishRotaResult{
		RotaID:           rota.ID,
		Status:           rota.Status,
		Version:          rota.Version,
		FullyStaffed:     counts[roster.StatusFullyStaffed],
		PartiallyStaffed: counts[roster.StatusPartiallyStaffed],
		Unfilled:         counts[roster.StatusUnfilled],
	}, nil
}
