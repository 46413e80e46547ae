package roster

import (
	"fmt"
	"strings"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// DefaultSuggestionLimit caps the primary suggestion list when the
// caller does not ask for a specific size. The alternatives list holds
// the next tier of the same size.
const DefaultSuggestionLimit = 3

// Suggestion is the ranked staffing advice for one open role slot on a
// shift.
type Suggestion struct {
	Suggested    []CandidateSuggestion
	Alternatives []CandidateSuggestion
	Reasoning    []string
}

// Suggest produces primary and alternative candidates for the role on
// the given shift, plus shift-level reasoning about systemic gaps.
// Output is deterministic for a given staff and rota snapshot.
func Suggest(rota *Rota, shiftID string, role model.Role, staff []model.StaffMember, opts AISchedulerOptions, limit int) (*Suggestion, error) {
	shift, ok := rota.ShiftByID(shiftID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShift, shiftID)
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	ranked := RankCandidates(staff, shift, role, rota, opts)

	out := &Suggestion{
		Reasoning: buildShiftReasoning(shift, role, staff, rota, ranked),
	}
	if len(ranked) > limit {
		out.Suggested = ranked[:limit]
		if rest := ranked[limit:]; len(rest) > limit {
			out.Alternatives = rest[:limit]
		} else {
			out.Alternatives = rest
		}
	} else {
		out.Suggested = ranked
	}
	return out, nil
}

// describeCandidate builds the per-candidate reason string from the
// dominant sub-score and any soft warnings.
func describeCandidate(breakdown StaffEvaluation, warnings []string) string {
	phrase := "strong training record"
	best := breakdown.TrainingCompliance
	if breakdown.PerformanceMetrics > best {
		phrase, best = "reliable on recent shifts", breakdown.PerformanceMetrics
	}
	if breakdown.WorkingPatterns > best {
		phrase, best = "good fit for this time slot", breakdown.WorkingPatterns
	}
	if breakdown.SkillsExperience > best {
		phrase = "experienced and well certified"
	}

	reason := fmt.Sprintf("%s%s (score %.0f)",
		strings.ToUpper(phrase[:1]), phrase[1:], breakdown.Total)
	if len(warnings) > 0 {
		reason += "; " + strings.Join(warnings, "; ")
	}
	return reason
}

// buildShiftReasoning summarizes systemic staffing issues for the shift
// and role, in a fixed order so repeated runs read identically.
func buildShiftReasoning(shift *Shift, role model.Role, staff []model.StaffMember, rota *Rota, ranked []CandidateSuggestion) []string {
	var reasoning []string

	required := shift.RoleRequired(role)
	assigned := shift.RoleAssigned(role)
	if required > 0 && assigned >= required {
		reasoning = append(reasoning, fmt.Sprintf("All %s slots on this shift are already filled", role))
	}
	if required == 0 {
		reasoning = append(reasoning, fmt.Sprintf("This shift does not require a %s", role))
	}

	holders := 0
	onLeave := 0
	missingTraining := 0
	doubleBooked := 0
	for _, member := range staff {
		if !member.Active || !member.HasRole(role) {
			continue
		}
		holders++
		eval := CheckEligibility(member, shift, role, rota)
		for _, v := range eval.Violations {
			switch v.Rule {
			case RuleOnLeave:
				onLeave++
			case RuleMissingTraining:
				missingTraining++
			case RuleDoubleBooked:
				doubleBooked++
			}
		}
	}

	if len(ranked) == 0 {
		if holders == 0 {
			reasoning = append(reasoning, fmt.Sprintf("No staff hold the %s role", role))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("No eligible %s available for this shift", role))
		}
	}
	if onLeave > 0 {
		reasoning = append(reasoning, fmt.Sprintf("%d of %d %s staff are on leave on %s",
			onLeave, holders, role, shift.Date.Format("2006-01-02")))
	}
	if missingTraining > 0 {
		reasoning = append(reasoning, fmt.Sprintf("%d %s staff are missing required training", missingTraining, role))
	}
	if doubleBooked > 0 {
		reasoning = append(reasoning, fmt.Sprintf("%d %s staff are already booked on overlapping shifts", doubleBooked, role))
	}

	open := required - assigned
	if open > 0 && len(ranked) > 0 && len(ranked) < open {
		reasoning = append(reasoning, fmt.Sprintf("Only %d eligible candidates for %d open %s slots",
			len(ranked), open, role))
	}

	return reasoning
}
