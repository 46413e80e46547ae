package roster

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// SlotRequirement sets the staffing target for one daily time slot: the
// total headcount plus how many of those must be shift leaders or
// drivers. The remainder is ordinary care staff.
type SlotRequirement struct {
	Total       int
	ShiftLeader int
	Driver      int
}

// Validate rejects negative counts and role counts that exceed the slot
// total.
func (s SlotRequirement) Validate() error {
	if s.Total < 0 || s.ShiftLeader < 0 || s.Driver < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidRequirement)
	}
	if s.ShiftLeader+s.Driver > s.Total {
		return fmt.Errorf("%w: role counts (%d) exceed slot total (%d)",
			ErrInvalidRequirement, s.ShiftLeader+s.Driver, s.Total)
	}
	return nil
}

// RoleCounts expands the slot requirement into per-role headcounts,
// with the unreserved remainder assigned to care staff.
func (s SlotRequirement) RoleCounts() []RoleCount {
	var counts []RoleCount
	if s.ShiftLeader > 0 {
		counts = append(counts, RoleCount{Role: model.RoleShiftLeader, Count: s.ShiftLeader})
	}
	if s.Driver > 0 {
		counts = append(counts, RoleCount{Role: model.RoleDriver, Count: s.Driver})
	}
	if remainder := s.Total - s.ShiftLeader - s.Driver; remainder > 0 {
		counts = append(counts, RoleCount{Role: model.RoleCareStaff, Count: remainder})
	}
	return counts
}

// WeeklyShiftRequirements sets the staffing targets applied to every
// day of a generated week.
type WeeklyShiftRequirements struct {
	Morning   SlotRequirement
	Afternoon SlotRequirement
	Night     SlotRequirement
}

// DefaultWeeklyRequirements returns the standard house pattern: four on
// each day shift with a leader and a driver, two overnight with a
// leader.
func DefaultWeeklyRequirements() WeeklyShiftRequirements {
	return WeeklyShiftRequirements{
		Morning:   SlotRequirement{Total: 4, ShiftLeader: 1, Driver: 1},
		Afternoon: SlotRequirement{Total: 4, ShiftLeader: 1, Driver: 1},
		Night:     SlotRequirement{Total: 2, ShiftLeader: 1},
	}
}

// ForSlot returns the requirement applied to the given time slot.
func (w WeeklyShiftRequirements) ForSlot(slot model.TimeSlot) SlotRequirement {
	switch slot {
	case model.SlotMorning:
		return w.Morning
	case model.SlotAfternoon:
		return w.Afternoon
	case model.SlotNight:
		return w.Night
	default:
		return SlotRequirement{}
	}
}

// Validate checks every slot requirement.
func (w WeeklyShiftRequirements) Validate() error {
	for _, slot := range model.AllTimeSlots() {
		if err := w.ForSlot(slot).Validate(); err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
	}
	return nil
}

// ExpandToWeek builds the 21 shift skeletons (7 days x 3 slots) for a
// week starting on weekStart. All shifts start Unfilled. The input is
// validated first; no skeletons are produced on failure.
func ExpandToWeek(weekStart time.Time, requirements WeeklyShiftRequirements) ([]*Shift, error) {
	if err := requirements.Validate(); err != nil {
		return nil, err
	}

	start := model.DateOnly(weekStart)
	shifts := make([]*Shift, 0, 21)
	for day := 0; day < 7; day++ {
		date := start.AddDate(0, 0, day)
		for _, slot := range model.AllTimeSlots() {
			req := requirements.ForSlot(slot)
			shifts = append(shifts, &Shift{
				ID:            uuid.New().String(),
				Date:          date,
				Time:          slot,
				RequiredStaff: req.Total,
				RequiredRoles: req.RoleCounts(),
				Status:        StatusUnfilled,
			})
		}
	}
	return shifts, nil
}

// GenerateRoster builds a fresh draft rota for the week starting on
// weekStart, with every shift unfilled.
func GenerateRoster(weekStart time.Time, requirements WeeklyShiftRequirements, cfg RotaConfig) (*Rota, error) {
	shifts, err := ExpandToWeek(weekStart, requirements)
	if err != nil {
		return nil, err
	}

	start := model.DateOnly(weekStart)
	cfg.Requirements = requirements
	return &Rota{
		ID:        uuid.New().String(),
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
		Shifts:    shifts,
		Config:    cfg,
		Status:    RotaDraft,
		Version:   1,
	}, nil
}
