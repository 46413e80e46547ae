package roster

import (
	"fmt"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// OptimizationPriority selects a preset weighting profile for scoring.
type OptimizationPriority string

const (
	PriorityBalanced        OptimizationPriority = "balanced"
	PriorityStaffPreference OptimizationPriority = "staff-preference"
	PriorityCoverage        OptimizationPriority = "coverage"
)

// DefaultMaxIterations bounds the auto-fill pass when the caller does
// not set a budget. One iteration is one slot-fill attempt.
const DefaultMaxIterations = 100

// AISchedulerOptions tunes candidate scoring and the auto-fill pass.
type AISchedulerOptions struct {
	OptimizationPriority       OptimizationPriority
	ConsiderTrainingStatus     bool
	ConsiderPerformanceMetrics bool
	AllowPartialFill           bool
	MaxIterations              int
	ShiftRequirements          WeeklyShiftRequirements
	Weightings                 *Weightings
}

// DefaultSchedulerOptions returns the balanced profile with both
// scoring toggles on and partial fills off.
func DefaultSchedulerOptions() AISchedulerOptions {
	return AISchedulerOptions{
		OptimizationPriority:       PriorityBalanced,
		ConsiderTrainingStatus:     true,
		ConsiderPerformanceMetrics: true,
		MaxIterations:              DefaultMaxIterations,
		ShiftRequirements:          DefaultWeeklyRequirements(),
	}
}

// effectiveWeightings resolves the weights used for scoring: explicit
// weightings win, otherwise the priority preset applies, and disabled
// toggles zero their sub-score.
func (o AISchedulerOptions) effectiveWeightings() Weightings {
	var w Weightings
	if o.Weightings != nil {
		w = *o.Weightings
	} else {
		switch o.OptimizationPriority {
		case PriorityStaffPreference:
			w = StaffPreferenceWeightings()
		case PriorityCoverage:
			w = CoverageWeightings()
		default:
			w = BalancedWeightings()
		}
	}
	if !o.ConsiderTrainingStatus {
		w.TrainingCompliance = 0
	}
	if !o.ConsiderPerformanceMetrics {
		w.PerformanceMetrics = 0
	}
	return w
}

// AutoFillReport summarizes an auto-fill pass over a rota.
type AutoFillReport struct {
	Applied      bool
	FullyStaffed bool
	Assigned     int
	Iterations   int
	OpenSlots    int
	Gaps         []string
}

// AutoFill greedily fills every open role slot on the rota with the
// best-scoring eligible candidate. The pass runs on a scratch copy: the
// result is only adopted when the week ends fully staffed, or when the
// options allow a partial fill. The returned rota is the filled copy
// when applied and the untouched input otherwise.
func AutoFill(rota *Rota, staff []model.StaffMember, opts AISchedulerOptions) (*Rota, *AutoFillReport, error) {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	scratch := rota.Clone()
	scratch.SortShifts()
	assembler := NewAssembler(scratch, staff)

	report := &AutoFillReport{}
	budgetExhausted := false

fill:
	for _, shift := range scratch.Shifts {
	roles:
		for _, rc := range shift.RequiredRoles {
			for shift.RoleAssigned(rc.Role) < rc.Count {
				if report.Iterations >= maxIterations {
					budgetExhausted = true
					break fill
				}
				report.Iterations++

				ranked := RankCandidates(staff, shift, rc.Role, scratch, opts)
				if len(ranked) == 0 {
					report.Gaps = append(report.Gaps,
						fmt.Sprintf("no eligible %s for the %s shift on %s",
							rc.Role, shift.Time, shift.Date.Format("2006-01-02")))
					continue roles
				}

				best := ranked[0]
				if err := assembler.Assign(shift.ID, best.StaffID, rc.Role, "auto-fill", false); err != nil {
					return nil, nil, fmt.Errorf("auto-fill assignment failed: %w", err)
				}
				report.Assigned++
			}
		}
	}

	report.FullyStaffed = true
	for _, shift := range scratch.Shifts {
		report.OpenSlots += shift.OpenSlotCount()
		if shift.Status != StatusFullyStaffed {
			report.FullyStaffed = false
		}
	}
	if budgetExhausted {
		report.Gaps = append(report.Gaps,
			fmt.Sprintf("stopped after %d iterations with %d slots still open",
				report.Iterations, report.OpenSlots))
	}

	report.Applied = report.FullyStaffed || opts.AllowPartialFill
	if !report.Applied {
		return rota, report, nil
	}
	return scratch, report, nil
}
