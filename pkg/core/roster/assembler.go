package roster

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// Assembler applies assignment operations to a rota while keeping every
// shift's status consistent with its assignments. It works over an
// in-memory snapshot: the caller loads the rota and staff directory
// first and persists the rota afterwards.
type Assembler struct {
	rota  *Rota
	staff map[string]model.StaffMember
}

// NewAssembler wraps a rota and the staff directory snapshot it should
// be edited against.
func NewAssembler(rota *Rota, staff []model.StaffMember) *Assembler {
	byID := make(map[string]model.StaffMember, len(staff))
	for _, member := range staff {
		byID[member.ID] = member
	}
	return &Assembler{rota: rota, staff: byID}
}

// Rota returns the rota being edited.
func (a *Assembler) Rota() *Rota {
	return a.rota
}

// Assign places a staff member on a shift in the given role. With
// override set, failed eligibility or a full role slot no longer block
// the assignment; the recomputed status then reports the conflict.
func (a *Assembler) Assign(shiftID, staffID string, role model.Role, assignedBy string, override bool) error {
	shift, ok := a.rota.ShiftByID(shiftID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShift, shiftID)
	}
	member, ok := a.staff[staffID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStaff, staffID)
	}
	if _, assigned := shift.AssignmentFor(staffID); assigned {
		return fmt.Errorf("%w: %s", ErrAlreadyAssigned, staffID)
	}

	eval := CheckEligibility(member, shift, role, a.rota)
	if !eval.Eligible && !override {
		return &IneligibleError{StaffID: staffID, ShiftID: shiftID, Violations: eval.Violations}
	}
	if shift.RoleAssigned(role) >= shift.RoleRequired(role) && !override {
		return fmt.Errorf("%w: %s on shift %s", ErrRoleSlotFull, role, shiftID)
	}

	shift.AssignedStaff = append(shift.AssignedStaff, Assignment{
		StaffID:    staffID,
		Role:       role,
		AssignedAt: time.Now().UTC(),
		AssignedBy: assignedBy,
		Override:   override,
	})
	a.RecomputeAll()
	return nil
}

// Remove takes a staff member off a shift and recomputes its status
// from scratch.
func (a *Assembler) Remove(shiftID, staffID string) error {
	shift, ok := a.rota.ShiftByID(shiftID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShift, shiftID)
	}

	for i, asg := range shift.AssignedStaff {
		if asg.StaffID == staffID {
			shift.AssignedStaff = append(shift.AssignedStaff[:i], shift.AssignedStaff[i+1:]...)
			a.RecomputeAll()
			return nil
		}
	}
	return fmt.Errorf("%w: %s on shift %s", ErrNotAssigned, staffID, shiftID)
}

// AddShift creates a new unfilled shift on the rota. Each date and time
// slot pairing may only exist once.
func (a *Assembler) AddShift(date time.Time, slot model.TimeSlot, req SlotRequirement) (*Shift, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if existing, ok := a.rota.ShiftAt(date, slot); ok {
		return nil, fmt.Errorf("%w: %s %s (%s)", ErrDuplicateShift,
			model.DateOnly(date).Format("2006-01-02"), slot, existing.ID)
	}

	shift := &Shift{
		ID:            uuid.New().String(),
		Date:          model.DateOnly(date),
		Time:          slot,
		RequiredStaff: req.Total,
		RequiredRoles: req.RoleCounts(),
		Status:        StatusUnfilled,
	}
	a.rota.Shifts = append(a.rota.Shifts, shift)
	a.rota.SortShifts()
	return shift, nil
}

// RecomputeAll rederives every shift's status from scratch so no stale
// state survives a mutation.
func (a *Assembler) RecomputeAll() {
	for _, shift := range a.rota.Shifts {
		shift.Status = a.statusOf(shift)
	}
}

func (a *Assembler) statusOf(shift *Shift) ShiftStatus {
	if a.shiftHasConflict(shift) {
		return StatusConflict
	}
	switch n := len(shift.AssignedStaff); {
	case n == 0:
		return StatusUnfilled
	case n >= shift.RequiredStaff && shift.rolesSatisfied():
		return StatusFullyStaffed
	default:
		return StatusPartiallyStaffed
	}
}

// shiftHasConflict reports whether any assignment on the shift breaks
// an invariant: leave, training, role mismatch, double-booking, or more
// staff in a role than the shift asked for. Staff ids missing from the
// directory snapshot cannot be checked and are left alone.
func (a *Assembler) shiftHasConflict(shift *Shift) bool {
	for _, asg := range shift.AssignedStaff {
		member, ok := a.staff[asg.StaffID]
		if !ok {
			continue
		}
		if eval := CheckEligibility(member, shift, asg.Role, a.rota); !eval.Eligible {
			return true
		}
	}
	for _, asg := range shift.AssignedStaff {
		if shift.RoleAssigned(asg.Role) > shift.RoleRequired(asg.Role) {
			return true
		}
	}
	return false
}

// ImportShift is one row of the bulk import document.
type ImportShift struct {
	Date  string   `json:"date"`
	Time  string   `json:"time"`
	Staff []string `json:"staff"`
}

// ImportPayload is the external bulk import document shape. Export uses
// the same shape so a week can round-trip between systems.
type ImportPayload struct {
	Shifts []ImportShift `json:"shifts"`
}

// ImportReport summarizes a bulk import: rows applied, rows skipped,
// and warnings for data that had to be dropped along the way.
type ImportReport struct {
	Applied  int
	Skipped  int
	Warnings []string
}

// ParseImport decodes a raw import document. Structural problems are
// fatal and reported as ErrMalformedImport before anything is applied.
func ParseImport(data []byte) (*ImportPayload, error) {
	var payload ImportPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if payload.Shifts == nil {
		return nil, fmt.Errorf("%w: missing shifts array", ErrMalformedImport)
	}
	return &payload, nil
}

// importRow is a validated import row staged for application.
type importRow struct {
	shift    *Shift
	staffIDs []string
}

// ImportBulk applies a bulk import document to the rota. Rows are
// validated before any mutation so a structural failure never leaves
// the rota half-imported. Row-level problems (unknown staff id, unknown
// time slot, no matching shift) skip that data with a warning and the
// rest of the import proceeds. Imported rows replace the matched
// shift's existing assignments.
func (a *Assembler) ImportBulk(payload *ImportPayload) (*ImportReport, error) {
	if payload == nil || payload.Shifts == nil {
		return nil, fmt.Errorf("%w: missing shifts array", ErrMalformedImport)
	}

	report := &ImportReport{}
	staged := make([]importRow, 0, len(payload.Shifts))

	for i, row := range payload.Shifts {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: invalid date %q", i+1, row.Date))
			continue
		}
		slot, err := model.ParseTimeSlot(row.Time)
		if err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: unknown shift time %q", i+1, row.Time))
			continue
		}
		shift, ok := a.rota.ShiftAt(date, slot)
		if !ok {
			report.Skipped++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: no %s shift on the rota for %s", i+1, slot, row.Date))
			continue
		}

		kept := make([]string, 0, len(row.Staff))
		for _, staffID := range row.Staff {
			if _, known := a.staff[staffID]; !known {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("row %d: unknown staff id %q dropped", i+1, staffID))
				continue
			}
			kept = append(kept, staffID)
		}
		staged = append(staged, importRow{shift: shift, staffIDs: kept})
	}

	// Apply only after every row has been resolved. The first row that
	// touches a shift replaces its assignments.
	cleared := make(map[string]bool)
	for _, row := range staged {
		if !cleared[row.shift.ID] {
			row.shift.AssignedStaff = nil
			cleared[row.shift.ID] = true
		}
		for _, staffID := range row.staffIDs {
			if _, dup := row.shift.AssignmentFor(staffID); dup {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("duplicate staff id %q for %s %s skipped",
						staffID, row.shift.Date.Format("2006-01-02"), row.shift.Time))
				continue
			}
			member := a.staff[staffID]
			row.shift.AssignedStaff = append(row.shift.AssignedStaff, Assignment{
				StaffID:    staffID,
				Role:       resolveImportRole(row.shift, member),
				AssignedAt: time.Now().UTC(),
				AssignedBy: "import",
			})
		}
		report.Applied++
	}

	a.RecomputeAll()
	return report, nil
}

// resolveImportRole picks the role an imported staff member occupies:
// the first still-open required role they hold, then care staff if they
// hold it, then their first role in the standard order.
func resolveImportRole(shift *Shift, member model.StaffMember) model.Role {
	for _, rc := range shift.RequiredRoles {
		if member.HasRole(rc.Role) && shift.RoleAssigned(rc.Role) < rc.Count {
			return rc.Role
		}
	}
	if member.HasRole(model.RoleCareStaff) {
		return model.RoleCareStaff
	}
	for _, role := range model.AllRoles() {
		if member.HasRole(role) {
			return role
		}
	}
	return model.RoleCareStaff
}

// ExportRota renders the rota's assignments in the import document
// shape. Every shift appears, including unfilled ones.
func ExportRota(rota *Rota) *ImportPayload {
	snapshot := rota.Clone()
	snapshot.SortShifts()

	payload := &ImportPayload{Shifts: make([]ImportShift, 0, len(snapshot.Shifts))}
	for _, shift := range snapshot.Shifts {
		staffIDs := make([]string, 0, len(shift.AssignedStaff))
		for _, asg := range shift.AssignedStaff {
			staffIDs = append(staffIDs, asg.StaffID)
		}
		payload.Shifts = append(payload.Shifts, ImportShift{
			Date:  shift.Date.Format("2006-01-02"),
			Time:  string(shift.Time),
			Staff: staffIDs,
		})
	}
	return payload
}
