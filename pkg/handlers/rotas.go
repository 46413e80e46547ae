package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
	"github.com/oakhollow/staff-rota/pkg/metrics"
)

// rotaParam resolves the rota id path segment. The literal "latest"
// maps to the empty id, which the services resolve to the most recently
// created rota.
func rotaParam(c *gin.Context) string {
	id := c.Param("id")
	if id == "latest" {
		return ""
	}
	return id
}

// parsePriority validates an optimization priority name, defaulting to
// balanced when unset.
func parsePriority(s string) (roster.OptimizationPriority, error) {
	switch priority := roster.OptimizationPriority(s); priority {
	case "":
		return roster.PriorityBalanced, nil
	case roster.PriorityBalanced, roster.PriorityStaffPreference, roster.PriorityCoverage:
		return priority, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

type generateRotaRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
}

// GenerateRota creates a fresh draft rota for a week
func (h *Handler) GenerateRota(c *gin.Context) {
	var req generateRotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	weekStart, err := time.Parse(dateFormat, req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid week_start %q, expected YYYY-MM-DD", req.WeekStart)})
		return
	}

	result, err := services.GenerateRoster(c.Request.Context(), h.DB, h.Config, h.Logger, weekStart)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	resp := gin.H{
		"rota":        newRotaView(result.Rota),
		"shift_count": result.ShiftCount,
	}
	if result.Superseded != "" {
		resp["superseded"] = result.Superseded
	}
	c.JSON(http.StatusCreated, resp)
}

// ListRotas returns the rota headers, newest week first
func (h *Handler) ListRotas(c *gin.Context) {
	records, err := services.ListRotas(c.Request.Context(), h.DB, h.Logger)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	views := make([]rotaSummaryView, 0, len(records))
	for _, record := range records {
		views = append(views, newRotaSummaryView(record))
	}
	c.JSON(http.StatusOK, gin.H{"rotas": views})
}

// GetRota returns one rota with its full shift grid
func (h *Handler) GetRota(c *gin.Context) {
	rota, err := services.GetRoster(c.Request.Context(), h.DB, h.Logger, rotaParam(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRotaView(rota))
}

type addShiftRequest struct {
	Date    string `json:"date" binding:"required"`
	Slot    string `json:"slot" binding:"required"`
	Total   int    `json:"total" binding:"required"`
	Leaders int    `json:"leaders"`
	Drivers int    `json:"drivers"`
}

// AddShift creates an extra shift on a rota, outside the generated
// week pattern
func (h *Handler) AddShift(c *gin.Context) {
	var req addShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)})
		return
	}
	slot, err := model.ParseTimeSlot(req.Slot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requirement := roster.SlotRequirement{
		Total:       req.Total,
		ShiftLeader: req.Leaders,
		Driver:      req.Drivers,
	}
	result, err := services.AddShift(c.Request.Context(), h.DB, h.Logger, rotaParam(c), date, slot, requirement)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"rota_id": result.RotaID,
		"shift":   newShiftView(result.Shift),
		"version": result.Version,
	})
}

// Suggestions ranks eligible staff for one role on a shift
func (h *Handler) Suggestions(c *gin.Context) {
	role, err := model.ParseRole(c.Query("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role query parameter is required and must name a known role"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", raw)})
			return
		}
	}

	opts := roster.DefaultSchedulerOptions()
	opts.OptimizationPriority, err = parsePriority(c.Query("priority"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.SuggestStaff(c.Request.Context(), h.DB, h.Logger, rotaParam(c), c.Param("shiftId"), role, opts, limit)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	metrics.SuggestionsComputed.WithLabelValues(string(role)).Inc()
	c.JSON(http.StatusOK, newSuggestionView(result))
}

type assignRequest struct {
	StaffID    string `json:"staff_id" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Override   bool   `json:"override"`
	AssignedBy string `json:"assigned_by"`
}

// Assign places a staff member on a shift. Without assigned_by the
// authenticated admin is recorded as the assigner.
func (h *Handler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignedBy := req.AssignedBy
	if assignedBy == "" {
		assignedBy = c.GetString("username")
	}

	result, err := services.AssignStaff(c.Request.Context(), h.DB, h.Logger,
		rotaParam(c), c.Param("shiftId"), req.StaffID, role, req.Override, assignedBy)
	if err != nil {
		metrics.Assignments.WithLabelValues(metrics.ResultRejected).Inc()
		h.respondEngineError(c, err)
		return
	}

	outcome := metrics.ResultAssigned
	if req.Override {
		outcome = metrics.ResultOverridden
	}
	metrics.Assignments.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, gin.H{
		"rota_id":      result.RotaID,
		"shift_id":     result.ShiftID,
		"staff_id":     result.StaffID,
		"role":         string(result.Role),
		"shift_status": string(result.ShiftStatus),
		"warnings":     result.Warnings,
		"version":      result.Version,
	})
}

// Remove takes a staff member off a shift
func (h *Handler) Remove(c *gin.Context) {
	result, err := services.RemoveStaff(c.Request.Context(), h.DB, h.Logger,
		rotaParam(c), c.Param("shiftId"), c.Param("staffId"))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rota_id":      result.RotaID,
		"shift_id":     result.ShiftID,
		"staff_id":     result.StaffID,
		"shift_status": string(result.ShiftStatus),
		"version":      result.Version,
	})
}

// Import applies a bulk import document to a rota
func (h *Handler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := services.ImportShifts(c.Request.Context(), h.DB, h.Logger, rotaParam(c), data)
	if err != nil {
		metrics.Imports.WithLabelValues(metrics.OutcomeFailed).Inc()
		h.respondEngineError(c, err)
		return
	}

	metrics.Imports.WithLabelValues(metrics.OutcomeApplied).Inc()
	c.JSON(http.StatusOK, gin.H{
		"rota_id":  result.RotaID,
		"applied":  result.Report.Applied,
		"skipped":  result.Report.Skipped,
		"warnings": result.Report.Warnings,
		"version":  result.Version,
	})
}

// Export renders a rota in the bulk import document shape
func (h *Handler) Export(c *gin.Context) {
	payload, err := services.ExportRota(c.Request.Context(), h.DB, h.Logger, rotaParam(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type autoFillRequest struct {
	Priority         string `json:"priority"`
	AllowPartialFill bool   `json:"allow_partial_fill"`
	MaxIterations    int    `json:"max_iterations"`
}

// AutoFill fills every open slot on a rota with the best eligible
// candidates. The body is optional; defaults fill a full week or
// nothing.
func (h *Handler) AutoFill(c *gin.Context) {
	var req autoFillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	opts := roster.DefaultSchedulerOptions()
	priority, err := parsePriority(req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.OptimizationPriority = priority
	opts.AllowPartialFill = req.AllowPartialFill
	if req.MaxIterations > 0 {
		opts.MaxIterations = req.MaxIterations
	}

	result, err := services.AutoFillRota(c.Request.Context(), h.DB, h.Logger, rotaParam(c), opts)
	if err != nil {
		metrics.AutoFillRuns.WithLabelValues(metrics.OutcomeFailed).Inc()
		h.respondEngineError(c, err)
		return
	}

	outcome := metrics.OutcomeApplied
	if !result.Report.Applied {
		outcome = metrics.OutcomeSkipped
	}
	metrics.AutoFillRuns.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, gin.H{
		"rota_id":       result.RotaID,
		"applied":       result.Report.Applied,
		"fully_staffed": result.Report.FullyStaffed,
		"assigned":      result.Report.Assigned,
		"iterations":    result.Report.Iterations,
		"open_slots":    result.Report.OpenSlots,
		"gaps":          result.Report.Gaps,
		"version":       result.Version,
		"rota":          newRotaView(result.Rota),
	})
}

// Publish moves a draft rota to published
func (h *Handler) Publish(c *gin.Context) {
	result, err := services.PublishRota(c.Request.Context(), h.DB, h.Logger, rotaParam(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rota_id":           result.RotaID,
		"status":            string(result.Status),
		"version":           result.Version,
		"fully_staffed":     result.FullyStaffed,
		"partially_staffed": result.PartiallyStaffed,
		"unfilled":          result.Unfilled,
	})
}

// Archive retires a rota at the end of its life
func (h *Handler) Archive(c *gin.Context) {
	result, err := services.ArchiveRota(c.Request.Context(), h.DB, h.Logger, rotaParam(c))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rota_id": result.RotaID,
		"status":  string(result.Status),
		"version": result.Version,
	})
}
