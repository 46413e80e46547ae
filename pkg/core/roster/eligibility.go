package roster

import (
	"fmt"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// Rule identifiers reported when an eligibility check fails.
const (
	RuleOnLeave         = "ON_LEAVE"
	RuleMissingTraining = "MISSING_TRAINING"
	RuleRoleMismatch    = "ROLE_MISMATCH"
	RuleDoubleBooked    = "DOUBLE_BOOKED"
)

// CertExpiryWarningDays is how far ahead of a shift date an expiring
// certification is flagged as a soft warning.
const CertExpiryWarningDays = 30

// RuleViolation is one failed eligibility rule with a readable
// description for operators.
type RuleViolation struct {
	Rule        string
	Description string
}

// Evaluation is the outcome of an eligibility check. Violations are
// hard failures; Warnings flag concerns that do not block assignment,
// such as pending non-required training.
type Evaluation struct {
	Eligible   bool
	Violations []RuleViolation
	Warnings   []string
}

// CheckEligibility applies the hard assignment rules for placing staff
// on shift in the given role. The rota supplies the other shifts
// consulted for double-booking; shared window endpoints count, so a
// night shift blocks the following morning.
func CheckEligibility(staff model.StaffMember, shift *Shift, role model.Role, rota *Rota) Evaluation {
	eval := Evaluation{}

	if staff.OnLeave(shift.Date) {
		eval.Violations = append(eval.Violations, RuleViolation{
			Rule: RuleOnLeave,
			Description: fmt.Sprintf("%s is on leave on %s",
				staff.FullName(), shift.Date.Format("2006-01-02")),
		})
	}

	for _, name := range shift.TrainingRequired {
		if !staff.HasCompletedTraining(name) {
			eval.Violations = append(eval.Violations, RuleViolation{
				Rule:        RuleMissingTraining,
				Description: fmt.Sprintf("required training %q is not completed", name),
			})
		}
	}

	if !staff.HasRole(role) {
		eval.Violations = append(eval.Violations, RuleViolation{
			Rule:        RuleRoleMismatch,
			Description: fmt.Sprintf("%s does not hold the %s role", staff.FullName(), role),
		})
	}

	if rota != nil {
		for _, other := range rota.Shifts {
			if other.ID == shift.ID {
				continue
			}
			if _, assigned := other.AssignmentFor(staff.ID); !assigned {
				continue
			}
			if shift.Time.Overlaps(shift.Date, other.Time, other.Date) {
				eval.Violations = append(eval.Violations, RuleViolation{
					Rule: RuleDoubleBooked,
					Description: fmt.Sprintf("already assigned to the %s shift on %s",
						other.Time, other.Date.Format("2006-01-02")),
				})
			}
		}
	}

	eval.Warnings = softWarnings(staff, shift)
	eval.Eligible = len(eval.Violations) == 0
	return eval
}

// softWarnings collects concerns worth surfacing against an otherwise
// eligible candidate. These never block assignment.
func softWarnings(staff model.StaffMember, shift *Shift) []string {
	var warnings []string

	required := make(map[string]bool, len(shift.TrainingRequired))
	for _, name := range shift.TrainingRequired {
		required[name] = true
	}

	for _, tm := range staff.TrainingModules {
		if required[tm.Name] {
			continue
		}
		switch tm.Status {
		case model.TrainingPending:
			warnings = append(warnings, fmt.Sprintf("training %q is still pending", tm.Name))
		case model.TrainingExpired:
			warnings = append(warnings, fmt.Sprintf("training %q has expired", tm.Name))
		}
	}

	// Expiry warnings are measured against the shift date, not the
	// clock, so suggestion runs stay reproducible.
	windowEnd := model.DateOnly(shift.Date).AddDate(0, 0, CertExpiryWarningDays)
	for _, tm := range staff.TrainingModules {
		if tm.Status != model.TrainingCompleted || tm.ExpiresAt.IsZero() {
			continue
		}
		expires := model.DateOnly(tm.ExpiresAt)
		if !expires.Before(model.DateOnly(shift.Date)) && !expires.After(windowEnd) {
			warnings = append(warnings, fmt.Sprintf("certification %q expires on %s",
				tm.Name, expires.Format("2006-01-02")))
		}
	}

	return warnings
}
