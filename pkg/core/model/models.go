package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleDriver      Role = "Driver"
	RoleShiftLeader Role = "Shift leader"
	RoleCareStaff   Role = "Care staff"
)

func (r Role) IsValid() bool {
	return r == RoleDriver || r == RoleShiftLeader || r == RoleCareStaff
}

// AllRoles returns the known roles in a fixed order.
func AllRoles() []Role {
	return []Role{RoleDriver, RoleShiftLeader, RoleCareStaff}
}

// ParseRole resolves user-supplied role names such as "shift-leader" or
// "Care Staff" to a known Role.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "-", " "), "_", " "))
	for _, role := range AllRoles() {
		if normalized == strings.ToLower(string(role)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// TrainingStatus is the completion state of a training module record.
type TrainingStatus string

const (
	TrainingCompleted TrainingStatus = "completed"
	TrainingPending   TrainingStatus = "pending"
	TrainingExpired   TrainingStatus = "expired"
)

// TrainingModule represents one training record held by a staff member
type TrainingModule struct {
	Name      string
	Required  bool
	Status    TrainingStatus
	ExpiresAt time.Time // zero if the module never expires
}

// LeaveInterval represents an approved leave booking, inclusive of both days
type LeaveInterval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the given date falls inside the interval.
// Both endpoints count as leave days.
func (l LeaveInterval) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(l.Start)) && !d.After(DateOnly(l.End))
}

// ComplianceScore holds the 0-100 compliance measures tracked per staff member
type ComplianceScore struct {
	Overall       float64
	Training      float64
	Certification float64
	Supervision   float64
	Documentation float64
}

// Compliance band thresholds. Scores at or above Good are compliant,
// scores below Warning need escalation.
const (
	ComplianceGoodThreshold    = 90.0
	ComplianceWarningThreshold = 70.0
)

// ComplianceBand is the reporting band a compliance score falls into.
type ComplianceBand string

const (
	BandCompliant      ComplianceBand = "compliant"
	BandNeedsAttention ComplianceBand = "needs attention"
	BandNonCompliant   ComplianceBand = "non-compliant"
)

// Band maps the overall score onto its reporting band.
func (c ComplianceScore) Band() ComplianceBand {
	switch {
	case c.Overall >= ComplianceGoodThreshold:
		return BandCompliant
	case c.Overall >= ComplianceWarningThreshold:
		return BandNeedsAttention
	default:
		return BandNonCompliant
	}
}

// PerformanceMetrics holds the 0-100 performance measures tracked per staff member
type PerformanceMetrics struct {
	AttendanceRate      float64
	PunctualityScore    float64
	ShiftCompletionRate float64
	FeedbackScore       float64
}

// Mean averages the four performance measures.
func (p PerformanceMetrics) Mean() float64 {
	return (p.AttendanceRate + p.PunctualityScore + p.ShiftCompletionRate + p.FeedbackScore) / 4
}

// WorkPreferences records a staff member's declared working preferences
type WorkPreferences struct {
	PreferredSlots []TimeSlot
}

// StaffMember represents a staff directory record. The roster engine
// only reads these; the directory itself is owned elsewhere.
type StaffMember struct {
	ID              string
	FirstName       string
	LastName        string
	Roles           []Role
	ContractedHours float64
	TrainingModules []TrainingModule
	LeaveIntervals  []LeaveInterval
	Compliance      ComplianceScore
	Performance     PerformanceMetrics
	Preferences     WorkPreferences
	Active          bool
}

func (s StaffMember) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

// HasRole reports whether the staff member holds the given role.
func (s StaffMember) HasRole(r Role) bool {
	for _, role := range s.Roles {
		if role == r {
			return true
		}
	}
	return false
}

// OnLeave reports whether any leave interval covers the given date.
func (s StaffMember) OnLeave(date time.Time) bool {
	for _, leave := range s.LeaveIntervals {
		if leave.Contains(date) {
			return true
		}
	}
	return false
}

// Training returns the named training module record, if held.
func (s StaffMember) Training(name string) (TrainingModule, bool) {
	for _, tm := range s.TrainingModules {
		if tm.Name == name {
			return tm, true
		}
	}
	return TrainingModule{}, false
}

// HasCompletedTraining reports whether the named module is held with
// completed status.
func (s StaffMember) HasCompletedTraining(name string) bool {
	tm, ok := s.Training(name)
	return ok && tm.Status == TrainingCompleted
}

// CompletedCertifications counts training modules completed and not expired.
func (s StaffMember) CompletedCertifications() int {
	count := 0
	for _, tm := range s.TrainingModules {
		if tm.Status == TrainingCompleted {
			count++
		}
	}
	return count
}

// PrefersSlot reports whether the staff member listed the slot among
// their preferred shift times.
func (s StaffMember) PrefersSlot(t TimeSlot) bool {
	for _, slot := range s.Preferences.PreferredSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// DateOnly truncates a timestamp to its calendar date in UTC. Shift and
// leave dates carry no meaningful time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
