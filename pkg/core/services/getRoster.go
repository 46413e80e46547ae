package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

// GetRosterStore defines the database operations needed for reading a rota
type GetRosterStore interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
}

// GetRoster loads a rota by id, or the most recent non-archived rota
// when the id is empty.
func GetRoster(ctx context.Context, database GetRosterStore, logger *zap.Logger, rotaID string) (*roster.Rota, error) {
	logger.Debug("Starting getRoster", zap.String("rota_id", rotaID))

	rota, err := resolveRota(ctx, database, logger, rotaID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded rota",
		zap.String("rota_id", rota.ID),
		zap.Time("week_start", rota.StartDate),
		zap.String("status", string(rota.Status)),
		zap.Int("version", rota.Version))

	return rota, nil
}

// ListRotasStore defines the database operations needed for listing rotas
type ListRotasStore interface {
	ListRotas(ctx context.Context) ([]db.RotaRecord, error)
}

// ListRotas returns the stored rota headers, newest week first.
func ListRotas(ctx context.Context, database ListRotasStore, logger *zap.Logger) ([]db.RotaRecord, error) {
	logger.Debug("Starting listRotas")

	rotas, err := database.ListRotas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rotas: %w", err)
	}

	logger.Debug("Found rotas", zap.Int("count", len(rotas)))
	return rotas, nil
}
