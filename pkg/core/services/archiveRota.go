package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// ErrAlreadyArchived is returned when archiving a rota twice.
var ErrAlreadyArchived = errors.New("rota is already archived")

// ArchiveRotaResult contains the archived rota's state.
type ArchiveRotaResult struct {
	RotaID  string
	Status  roster.RotaStatus
	Version int
}

// ArchiveRotaStore defines the database operations needed for archiving a rota
type ArchiveRotaStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// ArchiveRota retires a rota at the end of its life. Rotas are archived
// rather than deleted so past weeks stay auditable.
func ArchiveRota(
	ctx context.Context,
	database ArchiveRotaStore,
	logger *zap.Logger,
	rotaID string,
) (*ArchiveRotaResult, error) {
	logger.Debug("Starting archiveRota", zap.String("rota_id", rotaID))

	// Step 1: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}
	expectedVersion := rota.Version

	if rota.Status == roster.RotaArchived {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyArchived, rota.ID)
	}

	// Step 2: Persist the state change
	rota.Status = roster.RotaArchived
	if err := database.ReplaceRota(ctx, rota, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to save rota: %w", err)
	}

	logger.Info("Archived rota",
		zap.String("rota_id", rota.ID),
		zap.Time("week_start", rota.StartDate),
		zap.Int("version", rota.Version))

	return &ArchiveRotaResult{
		RotaID:  rota.ID,
		Status:  rota.Status,
		Version: rota.Version,
	}, nil
}
