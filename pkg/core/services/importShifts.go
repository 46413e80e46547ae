package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// ImportShiftsResult contains the import report plus the rota it was
// applied to.
type ImportShiftsResult struct {
	RotaID  string
	Report  *roster.ImportReport
	Version int
}

// ImportShiftsStore defines the database operations needed for a bulk import
type ImportShiftsStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// ImportShifts applies a bulk import document to a rota and persists
// the result. A structurally broken document fails before any mutation;
// row-level problems skip the row and come back in the report warnings.
func ImportShifts(
	ctx context.Context,
	database ImportShiftsStore,
	logger *zap.Logger,
	rotaID string,
	data []byte,
) (*ImportShiftsResult, error) {
	logger.Debug("Starting importShifts",
		zap.String("rota_id", rotaID),
		zap.Int("bytes", len(data)))

	// Step 1: Parse before touching anything
	payload, err := roster.ParseImport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse import document: %w", err)
	}
	logger.Debug("Parsed import document", zap.Int("rows", len(payload.Shifts)))

	// Step 2: Load the working rota
	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}
	expectedVersion := rota.Version

	// Step 3: Snapshot the staff directory
	staff, err := database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	// Step 4: Apply the import
	assembler := roster.NewAssembler(rota, staff)
	report, err := assembler.ImportBulk(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to import shifts: %w", err)
	}

	for _, warning := range report.Warnings {
		logger.Warn("Import warning", zap.String("warning", warning))
	}

	// Step 5: Persist the updated rota
	if err := database.ReplaceRota(ctx, rota, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to save rota: %w", err)
	}

	logger.Info("Imported shifts",
		zap.String("rota_id", rota.ID),
		zap.Int("applied", report.Applied),
		zap.Int("skipped", report.Skipped),
		zap.Int("warnings", len(report.Warnings)),
		zap.Int("version", rota.Version))

	return &ImportShiftsResult{
		RotaID:  rota.ID,
		Report:  report,
		Version: rota.Version,
	}, nil
}

// ExportRotaStore defines the database operations needed for exporting a rota
type ExportRotaStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
}

// ExportRota renders a rota as the bulk import document shape, so a
// week can round-trip through external systems.
func ExportRota(
	ctx context.Context,
	database ExportRotaStore,
	logger *zap.Logger,
	rotaID string,
) (*roster.ImportPayload, error) {
	logger.Debug("Starting exportRota", zap.String("rota_id", rotaID))

	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}

	payload := roster.ExportRota(rota)
	logger.Info("Exported rota",
		zap.String("rota_id", rota.ID),
		zap.Int("rows", len(payload.Shifts)))

	return payload, nil
}
