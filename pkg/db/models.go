package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
)

// StaffRecord represents a database staff row
type StaffRecord struct {
	ID                      string
	FirstName               string
	LastName                string
	Roles                   []string
	ContractedHours         float64
	ComplianceOverall       float64
	ComplianceTraining      float64
	ComplianceCertification float64
	ComplianceSupervision   float64
	ComplianceDocumentation float64
	AttendanceRate          float64
	PunctualityScore        float64
	ShiftCompletionRate     float64
	FeedbackScore           float64
	PreferredSlots          []string
	Active                  bool
}

// TrainingModuleRecord represents a database training module row
type TrainingModuleRecord struct {
	ID        string
	StaffID   string
	Name      string
	Required  bool
	Status    string
	ExpiresAt *time.Time
}

// LeaveIntervalRecord represents a database leave interval row
type LeaveIntervalRecord struct {
	ID        string
	StaffID   string
	StartDate time.Time
	EndDate   time.Time
}

// RotaRecord represents a database rota header row. The weekly
// requirements ride along as a JSON snapshot; the rest of the config is
// flattened into columns.
type RotaRecord struct {
	ID                 string
	StartDate          time.Time
	EndDate            time.Time
	Status             string
	Version            int
	MinStaffPerShift   int
	MaxConsecutiveDays int
	MinRestHours       int
	Requirements       []byte
}

// ShiftRecord represents a database shift row
type ShiftRecord struct {
	ID               string
	RotaID           string
	ShiftDate        time.Time
	TimeSlot         string
	RequiredTotal    int
	RequiredLeaders  int
	RequiredDrivers  int
	TrainingRequired []string
	Status           string
}

// AssignmentRecord represents a database assignment row
type AssignmentRecord struct {
	ShiftID    string
	StaffID    string
	Role       string
	AssignedAt time.Time
	AssignedBy string
	Override   bool
}

// AdminUser represents a database admin user row
type AdminUser struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// ToDomain assembles the staff directory read model from the staff row
// and its training and leave rows.
func (r StaffRecord) ToDomain(training []TrainingModuleRecord, leave []LeaveIntervalRecord) model.StaffMember {
	member := model.StaffMember{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ContractedHours: r.ContractedHours,
		Compliance: model.ComplianceScore{
			Overall:       r.ComplianceOverall,
			Training:      r.ComplianceTraining,
			Certification: r.ComplianceCertification,
			Supervision:   r.ComplianceSupervision,
			Documentation: r.ComplianceDocumentation,
		},
		Performance: model.PerformanceMetrics{
			AttendanceRate:      r.AttendanceRate,
			PunctualityScore:    r.PunctualityScore,
			ShiftCompletionRate: r.ShiftCompletionRate,
			FeedbackScore:       r.FeedbackScore,
		},
		Active: r.Active,
	}

	for _, role := range r.Roles {
		member.Roles = append(member.Roles, model.Role(role))
	}
	for _, slot := range r.PreferredSlots {
		parsed, err := model.ParseTimeSlot(slot)
		if err != nil {
			continue
		}
		member.Preferences.PreferredSlots = append(member.Preferences.PreferredSlots, parsed)
	}
	for _, tm := range training {
		module := model.TrainingModule{
			Name:     tm.Name,
			Required: tm.Required,
			Status:   model.TrainingStatus(tm.Status),
		}
		if tm.ExpiresAt != nil {
			module.ExpiresAt = *tm.ExpiresAt
		}
		member.TrainingModules = append(member.TrainingModules, module)
	}
	for _, li := range leave {
		member.LeaveIntervals = append(member.LeaveIntervals, model.LeaveInterval{
			Start: li.StartDate,
			End:   li.EndDate,
		})
	}
	return member
}

// NewRotaRecord flattens a rota header for storage.
func NewRotaRecord(rota *roster.Rota) (*RotaRecord, error) {
	requirements, err := json.Marshal(rota.Config.Requirements)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rota requirements: %w", err)
	}
	return &RotaRecord{
		ID:                 rota.ID,
		StartDate:          rota.StartDate,
		EndDate:            rota.EndDate,
		Status:             string(rota.Status),
		Version:            rota.Version,
		MinStaffPerShift:   rota.Config.MinStaffPerShift,
		MaxConsecutiveDays: rota.Config.MaxConsecutiveDays,
		MinRestHours:       rota.Config.MinRestPeriodHours,
		Requirements:       requirements,
	}, nil
}

// NewShiftRecord flattens one shift for storage. The per-role
// requirements collapse back to the slot requirement they were expanded
// from.
func NewShiftRecord(rotaID string, shift *roster.Shift) ShiftRecord {
	training := shift.TrainingRequired
	if training == nil {
		training = []string{}
	}
	return ShiftRecord{
		ID:               shift.ID,
		RotaID:           rotaID,
		ShiftDate:        shift.Date,
		TimeSlot:         string(shift.Time),
		RequiredTotal:    shift.RequiredStaff,
		RequiredLeaders:  shift.RoleRequired(model.RoleShiftLeader),
		RequiredDrivers:  shift.RoleRequired(model.RoleDriver),
		TrainingRequired: training,
		Status:           string(shift.Status),
	}
}

// NewAssignmentRecords flattens a shift's assignments for storage.
func NewAssignmentRecords(shift *roster.Shift) []AssignmentRecord {
	records := make([]AssignmentRecord, 0, len(shift.AssignedStaff))
	for _, asg := range shift.AssignedStaff {
		records = append(records, AssignmentRecord{
			ShiftID:    shift.ID,
			StaffID:    asg.StaffID,
			Role:       string(asg.Role),
			AssignedAt: asg.AssignedAt,
			AssignedBy: asg.AssignedBy,
			Override:   asg.Override,
		})
	}
	return records
}

// RotaFromRecords rebuilds the rota aggregate from its stored rows.
// Assignments are keyed by shift id.
func RotaFromRecords(header *RotaRecord, shifts []ShiftRecord, assignments map[string][]AssignmentRecord) (*roster.Rota, error) {
	var requirements roster.WeeklyShiftRequirements
	if len(header.Requirements) > 0 {
		if err := json.Unmarshal(header.Requirements, &requirements); err != nil {
			return nil, fmt.Errorf("failed to decode rota requirements: %w", err)
		}
	}

	rota := &roster.Rota{
		ID:        header.ID,
		StartDate: model.DateOnly(header.StartDate),
		EndDate:   model.DateOnly(header.EndDate),
		Status:    roster.RotaStatus(header.Status),
		Version:   header.Version,
		Config: roster.RotaConfig{
			MinStaffPerShift:   header.MinStaffPerShift,
			MaxConsecutiveDays: header.MaxConsecutiveDays,
			MinRestPeriodHours: header.MinRestHours,
			Requirements:       requirements,
		},
	}

	for _, sr := range shifts {
		slot, err := model.ParseTimeSlot(sr.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to decode shift %s: %w", sr.ID, err)
		}
		req := roster.SlotRequirement{
			Total:       sr.RequiredTotal,
			ShiftLeader: sr.RequiredLeaders,
			Driver:      sr.RequiredDrivers,
		}
		shift := &roster.Shift{
			ID:               sr.ID,
			Date:             model.DateOnly(sr.ShiftDate),
			Time:             slot,
			RequiredStaff:    sr.RequiredTotal,
			RequiredRoles:    req.RoleCounts(),
			TrainingRequired: sr.TrainingRequired,
			Status:           roster.ShiftStatus(sr.Status),
		}
		for _, ar := range assignments[sr.ID] {
			shift.AssignedStaff = append(shift.AssignedStaff, roster.Assignment{
				StaffID:    ar.StaffID,
				Role:       model.Role(ar.Role),
				AssignedAt: ar.AssignedAt,
				AssignedBy: ar.AssignedBy,
				Override:   ar.Override,
			})
		}
		rota.Shifts = append(rota.Shifts, shift)
	}

	rota.SortShifts()
	return rota, nil
}
