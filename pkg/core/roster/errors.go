package roster

import (
	"errors"
	"fmt"
	"strings"
)

// Engine failures are returned as values so callers can inspect them
// and decide whether to retry, override, or surface to an operator.
var (
	ErrInvalidRequirement = errors.New("roster: invalid staffing requirement")
	ErrRoleSlotFull       = errors.New("roster: role slots already filled")
	ErrDuplicateShift     = errors.New("roster: shift already exists for that date and time")
	ErrNotAssigned        = errors.New("roster: staff member is not assigned to that shift")
	ErrAlreadyAssigned    = errors.New("roster: staff member is already assigned to that shift")
	ErrMalformedImport    = errors.New("roster: malformed import payload")
	ErrUnknownShift       = errors.New("roster: unknown shift")
	ErrUnknownStaff       = errors.New("roster: unknown staff member")
)

// IneligibleError reports a rejected assignment together with the
// eligibility rules it broke.
type IneligibleError struct {
	StaffID    string
	ShiftID    string
	Violations []RuleViolation
}

func (e *IneligibleError) Error() string {
	rules := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		rules[i] = v.Rule
	}
	return fmt.Sprintf("roster: staff %s is ineligible for shift %s (%s)",
		e.StaffID, e.ShiftID, strings.Join(rules, ", "))
}
