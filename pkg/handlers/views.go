package handlers

import (
	"time"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
	"github.com/oakhollow/staff-rota/pkg/db"
)

const dateFormat = "2006-01-02"

// The view types shape API responses. Dates render as calendar days;
// the engine's time components never reach the wire.

type roleCountView struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type assignmentView struct {
	StaffID    string    `json:"staff_id"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`
	Override   bool      `json:"override,omitempty"`
}

type shiftView struct {
	ID               string           `json:"id"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	RequiredStaff    int              `json:"required_staff"`
	RequiredRoles    []roleCountView  `json:"required_roles"`
	AssignedStaff    []assignmentView `json:"assigned_staff"`
	Status           string           `json:"status"`
	TrainingRequired []string         `json:"training_required,omitempty"`
}

type rotaView struct {
	ID        string      `json:"id"`
	WeekStart string      `json:"week_start"`
	WeekEnd   string      `json:"week_end"`
	Status    string      `json:"status"`
	Version   int         `json:"version"`
	Shifts    []shiftView `json:"shifts"`
}

type rotaSummaryView struct {
	ID        string `json:"id"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Status    string `json:"status"`
	Version   int    `json:"version"`
}

type staffView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Roles           []string `json:"roles"`
	ContractedHours float64  `json:"contracted_hours"`
	Compliance      float64  `json:"compliance"`
	ComplianceBand  string   `json:"compliance_band"`
	Active          bool     `json:"active"`
}

type candidateView struct {
	StaffID    string   `json:"staff_id"`
	Role       string   `json:"role"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Warnings   []string `json:"warnings,omitempty"`
}

type suggestionView struct {
	RotaID       string          `json:"rota_id"`
	ShiftID      string          `json:"shift_id"`
	Role         string          `json:"role"`
	Suggested    []candidateView `json:"suggested"`
	Alternatives []candidateView `json:"alternatives"`
	Reasoning    []string        `json:"reasoning"`
}

func newShiftView(shift *roster.Shift) shiftView {
	view := shiftView{
		ID:               shift.ID,
		Date:             shift.Date.Format(dateFormat),
		Time:             string(shift.Time),
		RequiredStaff:    shift.RequiredStaff,
		RequiredRoles:    make([]roleCountView, 0, len(shift.RequiredRoles)),
		AssignedStaff:    make([]assignmentView, 0, len(shift.AssignedStaff)),
		Status:           string(shift.Status),
		TrainingRequired: shift.TrainingRequired,
	}
	for _, rc := range shift.RequiredRoles {
		view.RequiredRoles = append(view.RequiredRoles, roleCountView{
			Role:  string(rc.Role),
			Count: rc.Count,
		})
	}
	for _, asg := range shift.AssignedStaff {
		view.AssignedStaff = append(view.AssignedStaff, assignmentView{
			StaffID:    asg.StaffID,
			Role:       string(asg.Role),
			AssignedAt: asg.AssignedAt,
			AssignedBy: asg.AssignedBy,
			Override:   asg.Override,
		})
	}
	return view
}

func newRotaView(rota *roster.Rota) rotaView {
	view := rotaView{
		ID:        rota.ID,
		WeekStart: rota.StartDate.Format(dateFormat),
		WeekEnd:   rota.EndDate.Format(dateFormat),
		Status:    string(rota.Status),
		Version:   rota.Version,
		Shifts:    make([]shiftView, 0, len(rota.Shifts)),
	}
	for _, shift := range rota.Shifts {
		view.Shifts = append(view.Shifts, newShiftView(shift))
	}
	return view
}

func newRotaSummaryView(record db.RotaRecord) rotaSummaryView {
	return rotaSummaryView{
		ID:        record.ID,
		WeekStart: record.StartDate.Format(dateFormat),
		WeekEnd:   record.EndDate.Format(dateFormat),
		Status:    record.Status,
		Version:   record.Version,
	}
}

func newStaffView(member model.StaffMember) staffView {
	roles := make([]string, 0, len(member.Roles))
	for _, role := range member.Roles {
		roles = append(roles, string(role))
	}
	return staffView{
		ID:              member.ID,
		Name:            member.FullName(),
		Roles:           roles,
		ContractedHours: member.ContractedHours,
		Compliance:      member.Compliance.Overall,
		ComplianceBand:  string(member.Compliance.Band()),
		Active:          member.Active,
	}
}

func newCandidateViews(candidates []roster.CandidateSuggestion) []candidateView {
	views := make([]candidateView, 0, len(candidates))
	for _, cand := range candidates {
		views = append(views, candidateView{
			StaffID:    cand.StaffID,
			Role:       string(cand.Role),
			Score:      cand.Score,
			Confidence: cand.Confidence,
			Reason:     cand.Reason,
			Warnings:   cand.Warnings,
		})
	}
	return views
}

func newSuggestionView(result *services.SuggestStaffResult) suggestionView {
	return suggestionView{
		RotaID:       result.RotaID,
		ShiftID:      result.ShiftID,
		Role:         string(result.Role),
		Suggested:    newCandidateViews(result.Suggestion.Suggested),
		Alternatives: newCandidateViews(result.Suggestion.Alternatives),
		Reasoning:    result.Suggestion.Reasoning,
	}
}
