package roster

import (
	"sort"
	"time"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

const (
	// Scoring constants for the working-patterns sub-score.

	// PenaltyConsecutiveDays is deducted when an assignment would push a
	// staff member past the rota's maximum run of consecutive days.
	PenaltyConsecutiveDays = 30.0

	// PenaltyRestViolation is deducted when the gap to an adjacent
	// assigned shift falls below the rota's minimum rest period.
	PenaltyRestViolation = 40.0

	// BonusPreferredSlot is added when the shift falls in one of the
	// staff member's declared preferred time slots.
	BonusPreferredSlot = 10.0

	// FullTimeWeekHours anchors the contracted-hours tenure proxy in the
	// skills sub-score. Contracts at or above this count as full time.
	FullTimeWeekHours = 37.5

	// CertificationPoints is awarded per completed certification in the
	// skills sub-score, capped at half the scale.
	CertificationPoints = 10.0
)

// Weightings control the blend of the four candidate sub-scores. Each
// weight sits in [0,1]; they need not sum to one because the total is
// normalized by the weight sum.
type Weightings struct {
	TrainingCompliance float64
	PerformanceMetrics float64
	WorkingPatterns    float64
	SkillsExperience   float64
}

// BalancedWeightings weighs all four sub-scores equally.
func BalancedWeightings() Weightings {
	return Weightings{
		TrainingCompliance: 0.25,
		PerformanceMetrics: 0.25,
		WorkingPatterns:    0.25,
		SkillsExperience:   0.25,
	}
}

// StaffPreferenceWeightings favours working-pattern fit so suggestions
// track what staff asked for.
func StaffPreferenceWeightings() Weightings {
	return Weightings{
		TrainingCompliance: 0.2,
		PerformanceMetrics: 0.2,
		WorkingPatterns:    0.45,
		SkillsExperience:   0.15,
	}
}

// CoverageWeightings favours dependable coverage: compliance,
// reliability and experience over pattern fit.
func CoverageWeightings() Weightings {
	return Weightings{
		TrainingCompliance: 0.3,
		PerformanceMetrics: 0.3,
		WorkingPatterns:    0.1,
		SkillsExperience:   0.3,
	}
}

func (w Weightings) sum() float64 {
	return w.TrainingCompliance + w.PerformanceMetrics + w.WorkingPatterns + w.SkillsExperience
}

// StaffEvaluation is the per-candidate sub-score breakdown, each value
// normalized to 0-100.
type StaffEvaluation struct {
	TrainingCompliance float64
	PerformanceMetrics float64
	WorkingPatterns    float64
	SkillsExperience   float64
	Total              float64
}

// CandidateSuggestion ranks one eligible staff member for an open role
// slot. Suggestions are ephemeral: computed on demand, never stored.
type CandidateSuggestion struct {
	StaffID    string
	Role       model.Role
	Confidence float64
	Reason     string
	Score      float64
	Evaluation StaffEvaluation
	Warnings   []string
}

// EvaluateStaff computes the four sub-scores for a candidate against a
// shift, before weighting.
func EvaluateStaff(staff model.StaffMember, shift *Shift, rota *Rota) StaffEvaluation {
	return StaffEvaluation{
		TrainingCompliance: trainingComplianceScore(staff, shift),
		PerformanceMetrics: staff.Performance.Mean(),
		WorkingPatterns:    workingPatternsScore(staff, shift, rota),
		SkillsExperience:   skillsExperienceScore(staff),
	}
}

// trainingComplianceScore blends completion of the shift's required
// modules with the staff member's standing training compliance score.
// With no required modules the completion half scores full marks.
func trainingComplianceScore(staff model.StaffMember, shift *Shift) float64 {
	completion := 100.0
	if len(shift.TrainingRequired) > 0 {
		completed := 0
		for _, name := range shift.TrainingRequired {
			if staff.HasCompletedTraining(name) {
				completed++
			}
		}
		completion = float64(completed) / float64(len(shift.TrainingRequired)) * 100
	}
	return completion*0.5 + staff.Compliance.Training*0.5
}

// workingPatternsScore starts from full marks and deducts for working
// the staff member past the rota's consecutive-day or rest-period
// rules, then rewards a declared preference for the slot.
func workingPatternsScore(staff model.StaffMember, shift *Shift, rota *Rota) float64 {
	score := 100.0

	if rota != nil {
		if run := consecutiveRunWith(rota, staff.ID, shift.Date); run > rota.Config.MaxConsecutiveDays && rota.Config.MaxConsecutiveDays > 0 {
			score -= PenaltyConsecutiveDays
		}
		if violatesRestPeriod(rota, staff.ID, shift) {
			score -= PenaltyRestViolation
		}
	}

	if staff.PrefersSlot(shift.Time) {
		score += BonusPreferredSlot
	}

	return clamp(score, 0, 100)
}

// consecutiveRunWith measures the run of consecutive assigned days the
// staff member would be working if the given date were added.
func consecutiveRunWith(rota *Rota, staffID string, date time.Time) int {
	assigned := make(map[string]bool)
	for _, s := range rota.Shifts {
		if _, ok := s.AssignmentFor(staffID); ok {
			assigned[model.DateOnly(s.Date).Format("2006-01-02")] = true
		}
	}

	day := model.DateOnly(date)
	run := 1
	for d := day.AddDate(0, 0, -1); assigned[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		run++
	}
	for d := day.AddDate(0, 0, 1); assigned[d.Format("2006-01-02")]; d = d.AddDate(0, 0, 1) {
		run++
	}
	return run
}

// violatesRestPeriod reports whether any existing assignment sits
// closer to the shift than the rota's minimum rest period. Overlapping
// windows are left to the double-booking rule.
func violatesRestPeriod(rota *Rota, staffID string, shift *Shift) bool {
	if rota.Config.MinRestPeriodHours <= 0 {
		return false
	}
	minRest := time.Duration(rota.Config.MinRestPeriodHours) * time.Hour
	start, end := shift.Time.WindowOn(shift.Date)

	for _, other := range rota.Shifts {
		if other.ID == shift.ID {
			continue
		}
		if _, ok := other.AssignmentFor(staffID); !ok {
			continue
		}
		oStart, oEnd := other.Time.WindowOn(other.Date)
		switch {
		case !oEnd.After(start):
			if start.Sub(oEnd) < minRest {
				return true
			}
		case !end.After(oStart):
			if oStart.Sub(end) < minRest {
				return true
			}
		}
	}
	return false
}

// skillsExperienceScore derives half its scale from contracted hours as
// a tenure proxy and half from completed certifications.
func skillsExperienceScore(staff model.StaffMember) float64 {
	tenure := staff.ContractedHours / FullTimeWeekHours
	if tenure > 1 {
		tenure = 1
	}
	certs := float64(staff.CompletedCertifications()) * CertificationPoints
	if certs > 50 {
		certs = 50
	}
	return tenure*50 + certs
}

// RankCandidates scores every eligible active staff member for the
// given role on a shift and returns them best first. Ineligible staff
// never appear, even with low confidence. Ties are broken by staff id
// so reruns over the same snapshot produce identical orderings.
func RankCandidates(staff []model.StaffMember, shift *Shift, role model.Role, rota *Rota, opts AISchedulerOptions) []CandidateSuggestion {
	weights := opts.effectiveWeightings()
	weightSum := weights.sum()

	var candidates []CandidateSuggestion
	for _, member := range staff {
		if !member.Active {
			continue
		}
		// Staff already on the shift cannot take a second slot on it.
		if _, assigned := shift.AssignmentFor(member.ID); assigned {
			continue
		}
		eval := CheckEligibility(member, shift, role, rota)
		if !eval.Eligible {
			continue
		}

		breakdown := EvaluateStaff(member, shift, rota)
		if weightSum > 0 {
			breakdown.Total = (breakdown.TrainingCompliance*weights.TrainingCompliance +
				breakdown.PerformanceMetrics*weights.PerformanceMetrics +
				breakdown.WorkingPatterns*weights.WorkingPatterns +
				breakdown.SkillsExperience*weights.SkillsExperience) / weightSum
		}

		candidates = append(candidates, CandidateSuggestion{
			StaffID:    member.ID,
			Role:       role,
			Confidence: clamp(breakdown.Total/100, 0, 1),
			Reason:     describeCandidate(breakdown, eval.Warnings),
			Score:      breakdown.Total,
			Evaluation: breakdown,
			Warnings:   eval.Warnings,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})
	return candidates
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
