package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

// newStaff builds an active staff member with healthy scores.
func newStaff(id string, roles ...model.Role) model.StaffMember {
	return model.StaffMember{
		ID:              id,
		FirstName:       "Staff",
		LastName:        id,
		Roles:           roles,
		ContractedHours: 37.5,
		Compliance: model.ComplianceScore{
			Overall: 92, Training: 90, Certification: 88, Supervision: 91, Documentation: 85,
		},
		Performance: model.PerformanceMetrics{
			AttendanceRate: 95, PunctualityScore: 92, ShiftCompletionRate: 97, FeedbackScore: 88,
		},
		Active: true,
	}
}

// newShift builds a shift skeleton for the given slot requirement.
func newShift(id string, date time.Time, slot model.TimeSlot, req SlotRequirement) *Shift {
	return &Shift{
		ID:            id,
		Date:          date,
		Time:          slot,
		RequiredStaff: req.Total,
		RequiredRoles: req.RoleCounts(),
		Status:        StatusUnfilled,
	}
}

// newRota wraps shifts in a draft rota with the default staffing rules.
func newRota(shifts ...*Shift) *Rota {
	rota := &Rota{
		ID:     "rota-1",
		Shifts: shifts,
		Config: DefaultRotaConfig(),
		Status: RotaDraft,
	}
	if len(shifts) > 0 {
		rota.StartDate = model.DateOnly(shifts[0].Date)
		rota.EndDate = rota.StartDate.AddDate(0, 0, 6)
	}
	return rota
}

func violatedRules(eval Evaluation) []string {
	rules := make([]string, 0, len(eval.Violations))
	for _, v := range eval.Violations {
		rules = append(rules, v.Rule)
	}
	return rules
}

func TestCheckEligibility_OnLeave(t *testing.T) {
	staff := newStaff("s1", model.RoleCareStaff)
	staff.LeaveIntervals = []model.LeaveInterval{{
		Start: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
	}}

	shift := newShift("sh1", time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		model.SlotMorning, SlotRequirement{Total: 2})

	eval := CheckEligibility(staff, shift, model.RoleCareStaff, nil)
	assert.False(t, eval.Eligible)
	assert.Contains(t, violatedRules(eval), RuleOnLeave)
}

func TestCheckEligibility_LeaveEndpointsInclusive(t *testing.T) {
	staff := newStaff("s1", model.RoleCareStaff)
	staff.LeaveIntervals = []model.LeaveInterval{{
		Start: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
	}}

	for _, date := range []time.Time{
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
	} {
		shift := newShift("sh1", date, model.SlotMorning, SlotRequirement{Total: 1})
		eval := CheckEligibility(staff, shift, model.RoleCareStaff, nil)
		assert.False(t, eval.Eligible, "leave must cover %s", date.Format("2006-01-02"))
	}

	clear := newShift("sh2", time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC),
		model.SlotMorning, SlotRequirement{Total: 1})
	eval := CheckEligibility(staff, clear, model.RoleCareStaff, nil)
	assert.True(t, eval.Eligible)
}

func TestCheckEligibility_RequiredTraining(t *testing.T) {
	shift := newShift("sh1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		model.SlotMorning, SlotRequirement{Total: 2})
	shift.TrainingRequired = []string{"Medication Administration", "Fire Safety"}

	tests := []struct {
		name     string
		modules  []model.TrainingModule
		eligible bool
	}{
		{
			name: "all required completed",
			modules: []model.TrainingModule{
				{Name: "Medication Administration", Required: true, Status: model.TrainingCompleted},
				{Name: "Fire Safety", Required: true, Status: model.TrainingCompleted},
			},
			eligible: true,
		},
		{
			name: "one required still pending",
			modules: []model.TrainingModule{
				{Name: "Medication Administration", Required: true, Status: model.TrainingCompleted},
				{Name: "Fire Safety", Required: true, Status: model.TrainingPending},
			},
			eligible: false,
		},
		{
			name: "required module expired",
			modules: []model.TrainingModule{
				{Name: "Medication Administration", Required: true, Status: model.TrainingExpired},
				{Name: "Fire Safety", Required: true, Status: model.TrainingCompleted},
			},
			eligible: false,
		},
		{
			name:     "module never taken",
			modules:  nil,
			eligible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staff := newStaff("s1", model.RoleCareStaff)
			staff.TrainingModules = tt.modules

			eval := CheckEligibility(staff, shift, model.RoleCareStaff, nil)
			assert.Equal(t, tt.eligible, eval.Eligible)
			if !tt.eligible {
				assert.Contains(t, violatedRules(eval), RuleMissingTraining)
			}
		})
	}
}

func TestCheckEligibility_NoRequiredTrainingPasses(t *testing.T) {
	staff := newStaff("s1", model.RoleCareStaff)
	shift := newShift("sh1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		model.SlotMorning, SlotRequirement{Total: 2})

	eval := CheckEligibility(staff, shift, model.RoleCareStaff, nil)
	assert.True(t, eval.Eligible)
	assert.Empty(t, eval.Violations)
}

func TestCheckEligibility_RoleMismatch(t *testing.T) {
	staff := newStaff("s1", model.RoleCareStaff)
	shift := newShift("sh1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		model.SlotMorning, SlotRequirement{Total: 2, Driver: 1})

	eval := CheckEligibility(staff, shift, model.RoleDriver, nil)
	assert.False(t, eval.Eligible)
	assert.Contains(t, violatedRules(eval), RuleRoleMismatch)
}

func TestCheckEligibility_NightIntoMorningDoubleBooking(t *testing.T) {
	staff := newStaff("s1", model.RoleCareStaff)

	night := newShift("night", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		model.SlotNight, SlotRequirement{Total: 2})
	night.AssignedStaff = []Assignment{{StaffID: "s1", Role: model.RoleCareStaff}}

	morning := newShift("morning", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		model.SlotMorning, SlotRequirement{Total: 2})
	afternoon := newShift("afternoon", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		model.SlotAfternoon, SlotRequirement{Total: 2})

	rota := newRota(night, morning, afternoon)

	// The night shift runs until 07:30 on Feb 2, colliding with the
	// morning handover.
	eval := CheckEligibility(staff, morning, model.RoleCareStaff, rota)
	assert.False(t, eval.Eligible)
	assert.Contains(t, violatedRules(eval), RuleDoubleBooked)

	// The afternoon is clear of the night window.
	eval = CheckEligibility(staff, afternoon, model.RoleCareStaff, rota)
	assert.True(t, eval.Eligible)
}

func TestCheckEligibility_SoftWarnings(t *testing.T) {
	shiftDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	shift := newShift("sh1", shiftDate, model.SlotMorning, SlotRequirement{Total: 2})

	staff := newStaff("s1", model.RoleCareStaff)
	staff.TrainingModules = []model.TrainingModule{
		{Name: "Dementia Awareness", Status: model.TrainingPending},
		{Name: "First Aid", Status: model.TrainingCompleted, ExpiresAt: shiftDate.AddDate(0, 0, 20)},
		{Name: "Safeguarding", Status: model.TrainingCompleted, ExpiresAt: shiftDate.AddDate(0, 0, 90)},
	}

	eval := CheckEligibility(staff, shift, model.RoleCareStaff, nil)
	require.True(t, eval.Eligible, "warnings must not block assignment")

	require.Len(t, eval.Warnings, 2)
	assert.Contains(t, eval.Warnings[0], "Dementia Awareness")
	assert.Contains(t, eval.Warnings[1], "First Aid")
}
