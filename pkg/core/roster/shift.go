package roster

import (
	"sort"
	"time"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// ShiftStatus describes how completely a shift is staffed.
type ShiftStatus string

const (
	StatusUnfilled         ShiftStatus = "Unfilled"
	StatusPartiallyStaffed ShiftStatus = "Partially staffed"
	StatusFullyStaffed     ShiftStatus = "Fully staffed"
	StatusConflict         ShiftStatus = "Conflict"
)

// RoleCount pairs a role with a required headcount.
type RoleCount struct {
	Role  model.Role
	Count int
}

// Assignment records one staff member occupying a role on a shift.
type Assignment struct {
	StaffID    string
	Role       model.Role
	AssignedAt time.Time
	AssignedBy string
	Override   bool
}

// Shift is a single staffed time slot on a rota.
type Shift struct {
	ID               string
	Date             time.Time
	Time             model.TimeSlot
	RequiredStaff    int
	RequiredRoles    []RoleCount
	AssignedStaff    []Assignment
	Status           ShiftStatus
	TrainingRequired []string
}

// AssignmentFor returns the assignment held by the given staff member.
func (s *Shift) AssignmentFor(staffID string) (Assignment, bool) {
	for _, a := range s.AssignedStaff {
		if a.StaffID == staffID {
			return a, true
		}
	}
	return Assignment{}, false
}

// RoleRequired returns the required headcount for a role, zero when the
// role is not part of the shift's requirements.
func (s *Shift) RoleRequired(role model.Role) int {
	for _, rc := range s.RequiredRoles {
		if rc.Role == role {
			return rc.Count
		}
	}
	return 0
}

// RoleAssigned counts current assignments in the given role.
func (s *Shift) RoleAssigned(role model.Role) int {
	count := 0
	for _, a := range s.AssignedStaff {
		if a.Role == role {
			count++
		}
	}
	return count
}

// OpenRoles lists roles that still have unfilled slots, in requirement
// order.
func (s *Shift) OpenRoles() []model.Role {
	var open []model.Role
	for _, rc := range s.RequiredRoles {
		if s.RoleAssigned(rc.Role) < rc.Count {
			open = append(open, rc.Role)
		}
	}
	return open
}

// OpenSlotCount totals the unfilled slots across all required roles.
func (s *Shift) OpenSlotCount() int {
	total := 0
	for _, rc := range s.RequiredRoles {
		if missing := rc.Count - s.RoleAssigned(rc.Role); missing > 0 {
			total += missing
		}
	}
	return total
}

// rolesSatisfied reports whether every required role has at least its
// required headcount assigned.
func (s *Shift) rolesSatisfied() bool {
	for _, rc := range s.RequiredRoles {
		if s.RoleAssigned(rc.Role) < rc.Count {
			return false
		}
	}
	return true
}

// Clone deep-copies the shift.
func (s *Shift) Clone() *Shift {
	out := *s
	out.RequiredRoles = append([]RoleCount(nil), s.RequiredRoles...)
	out.AssignedStaff = append([]Assignment(nil), s.AssignedStaff...)
	out.TrainingRequired = append([]string(nil), s.TrainingRequired...)
	return &out
}

// RotaStatus is the lifecycle state of a rota.
type RotaStatus string

const (
	RotaDraft     RotaStatus = "draft"
	RotaPublished RotaStatus = "published"
	RotaArchived  RotaStatus = "archived"
)

// RotaConfig holds the staffing rules a rota was generated under.
type RotaConfig struct {
	MinStaffPerShift   int
	MaxConsecutiveDays int
	MinRestPeriodHours int
	Requirements       WeeklyShiftRequirements
}

// DefaultRotaConfig returns the house staffing rules: at least two on
// every shift, no more than five days in a row, eleven hours rest
// between shifts.
func DefaultRotaConfig() RotaConfig {
	return RotaConfig{
		MinStaffPerShift:   2,
		MaxConsecutiveDays: 5,
		MinRestPeriodHours: 11,
		Requirements:       DefaultWeeklyRequirements(),
	}
}

// Rota is one week's grid of shifts. One rota exists per week per site;
// rotas are archived rather than deleted.
type Rota struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	Shifts    []*Shift
	Config    RotaConfig
	Status    RotaStatus
	Version   int
}

// ShiftByID returns the shift with the given id.
func (r *Rota) ShiftByID(id string) (*Shift, bool) {
	for _, s := range r.Shifts {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// ShiftAt returns the shift occupying the given date and time slot.
func (r *Rota) ShiftAt(date time.Time, slot model.TimeSlot) (*Shift, bool) {
	day := model.DateOnly(date)
	for _, s := range r.Shifts {
		if s.Time == slot && model.DateOnly(s.Date).Equal(day) {
			return s, true
		}
	}
	return nil, false
}

// ShiftsFor lists every shift the staff member is assigned to.
func (r *Rota) ShiftsFor(staffID string) []*Shift {
	var out []*Shift
	for _, s := range r.Shifts {
		if _, ok := s.AssignmentFor(staffID); ok {
			out = append(out, s)
		}
	}
	return out
}

// SortShifts orders the grid by date, then by slot within the day.
func (r *Rota) SortShifts() {
	sort.SliceStable(r.Shifts, func(i, j int) bool {
		a, b := r.Shifts[i], r.Shifts[j]
		da, db := model.DateOnly(a.Date), model.DateOnly(b.Date)
		if !da.Equal(db) {
			return da.Before(db)
		}
		return model.SlotOrder(a.Time) < model.SlotOrder(b.Time)
	})
}

// Clone deep-copies the rota so speculative passes can work on a
// scratch copy without touching the caller's state.
func (r *Rota) Clone() *Rota {
	out := *r
	out.Shifts = make([]*Shift, len(r.Shifts))
	for i, s := range r.Shifts {
		out.Shifts[i] = s.Clone()
	}
	return &out
}
