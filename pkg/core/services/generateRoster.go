package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/internal/config"
	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

// GenerateRosterResult contains the generated week and, when a draft
// for the same week already existed, the id of the draft this one
// superseded.
type GenerateRosterResult struct {
	Rota       *roster.Rota
	ShiftCount int
	Superseded string
}

// GenerateRosterStore defines the database operations needed for generating a rota
type GenerateRosterStore interface {
	GetDraftRotaForWeek(ctx context.Context, weekStart time.Time) (*roster.Rota, error)
	InsertRota(ctx context.Context, rota *roster.Rota) error
	ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error
}

// GenerateRoster builds a fresh draft rota for the week starting on
// weekStart, using the configured staffing defaults plus any recurring
// requirement overrides whose rule lands inside the week. An existing
// draft for the same week is archived, never deleted.
func GenerateRoster(
	ctx context.Context,
	database GenerateRosterStore,
	cfg *config.Config,
	logger *zap.Logger,
	weekStart time.Time,
) (*GenerateRosterResult, error) {
	weekStart = model.DateOnly(weekStart)
	logger.Debug("Starting generateRoster", zap.Time("week_start", weekStart))

	// Step 1: Expand the staffing defaults into a week of shifts
	rota, err := roster.GenerateRoster(weekStart, cfg.WeeklyRequirements(), cfg.RotaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to generate roster: %w", err)
	}
	logger.Debug("Expanded week",
		zap.String("rota_id", rota.ID),
		zap.Int("shift_count", len(rota.Shifts)))

	// Step 2: Apply recurring requirement overrides to matching shifts
	if err := applyRequirementOverrides(rota, cfg.RequirementOverrides, logger); err != nil {
		return nil, fmt.Errorf("failed to apply requirement overrides: %w", err)
	}

	// Step 3: Archive any draft already covering this week
	superseded := ""
	existing, err := database.GetDraftRotaForWeek(ctx, weekStart)
	switch {
	case err == nil:
		logger.Info("Superseding existing draft for week",
			zap.String("rota_id", existing.ID),
			zap.Int("version", existing.Version))
		existing.Status = roster.RotaArchived
		if err := database.ReplaceRota(ctx, existing, existing.Version); err != nil {
			return nil, fmt.Errorf("failed to archive superseded draft: %w", err)
		}
		superseded = existing.ID
	case errors.Is(err, db.ErrNotFound):
		// First draft for this week
	default:
		return nil, fmt.Errorf("failed to check for existing draft: %w", err)
	}

	// Step 4: Persist the new draft
	if err := database.InsertRota(ctx, rota); err != nil {
		return nil, fmt.Errorf("failed to insert rota: %w", err)
	}

	logger.Info("Generated draft rota",
		zap.String("rota_id", rota.ID),
		zap.Time("week_start", rota.StartDate),
		zap.Int("shift_count", len(rota.Shifts)),
		zap.String("superseded", superseded))

	return &GenerateRosterResult{
		Rota:       rota,
		ShiftCount: len(rota.Shifts),
		Superseded: superseded,
	}, nil
}

// applyRequirementOverrides patches the staffing targets of shifts whose
// date and slot match a configured recurrence rule. Rules are expanded
// against the rota's week with a buffer either side so rules anchored
// outside the week still land on it.
func applyRequirementOverrides(rota *roster.Rota, overrides []config.RequirementOverride, logger *zap.Logger) error {
	if len(overrides) == 0 {
		return nil
	}

	searchStart := rota.StartDate.AddDate(0, 0, -7)
	searchEnd := rota.EndDate.AddDate(0, 0, 7)

	for i, override := range overrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return fmt.Errorf("failed to parse rrule for override %d: %w", i, err)
		}
		slot, err := model.ParseTimeSlot(override.Slot)
		if err != nil {
			return fmt.Errorf("invalid slot for override %d: %w", i, err)
		}

		rule.DTStart(searchStart)
		matched := 0
		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			shift, ok := rota.ShiftAt(occurrence, slot)
			if !ok {
				continue
			}

			req := roster.SlotRequirement{
				Total:       shift.RequiredStaff,
				ShiftLeader: shift.RoleRequired(model.RoleShiftLeader),
				Driver:      shift.RoleRequired(model.RoleDriver),
			}
			if override.Total != nil {
				req.Total = *override.Total
			}
			if override.Leaders != nil {
				req.ShiftLeader = *override.Leaders
			}
			if override.Drivers != nil {
				req.Driver = *override.Drivers
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("override %d produces an invalid requirement: %w", i, err)
			}

			shift.RequiredStaff = req.Total
			shift.RequiredRoles = req.RoleCounts()
			matched++
		}

		logger.Debug("Applied requirement override",
			zap.Int("index", i),
			zap.String("rrule", override.RRule),
			zap.String("slot", string(slot)),
			zap.Int("shifts_matched", matched))
	}

	return nil
}
