package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ListStaff returns the staff directory
func (h *Handler) ListStaff(c *gin.Context) {
	staff, err := services.ListStaff(c.Request.Context(), h.DB, h.Logger)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	views := make([]staffView, 0, len(staff))
	for _, member := range staff {
		views = append(views, newStaffView(member))
	}
	c.JSON(http.StatusOK, gin.H{"staff": views})
}
