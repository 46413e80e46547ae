package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// rotaReader is the store surface shared by every operation that loads
// a rota by id or falls back to the current working rota.
type rotaReader interface {
	GetRota(ctx context.Context, id string) (*roster.Rota, error)
	GetLatestRota(ctx context.Context) (*roster.Rota, error)
}

// resolveRota loads the rota with the given id. With an empty id it
// falls back to the most recent non-archived rota, which is the week
// operators mean when they do not name one.
func resolveRota(ctx context.Context, database rotaReader, logger *zap.Logger, rotaID string) (*roster.Rota, error) {
	if rotaID == "" {
		logger.Debug("No rota ID provided, using latest rota")
		rota, err := database.GetLatestRota(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch latest rota: %w", err)
		}
		return rota, nil
	}

	rota, err := database.GetRota(ctx, rotaID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rota %s: %w", rotaID, err)
	}
	return rota, nil
}

// countByStatus tallies the rota's shifts per staffing status, used for
// result summaries and log lines.
func countByStatus(rota *roster.Rota) map[roster.ShiftStatus]int {
	counts := make(map[roster.ShiftStatus]int)
	for _, shift := range rota.Shifts {
		counts[shift.Status]++
	}
	return counts
}
