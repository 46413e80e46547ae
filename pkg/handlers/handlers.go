package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oakhollow/staff-rota/internal/config"
	"github.com/oakhollow/staff-rota/pkg/auth"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
	"github.com/oakhollow/staff-rota/pkg/db"
	"github.com/oakhollow/staff-rota/pkg/metrics"
)

// Pinger reports whether the backing store is reachable, for the
// health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     db.Database
	Auth   *auth.Service
	Config *config.Config
	Logger *zap.Logger
	Pinger Pinger
}

// Routes wires every endpoint onto the engine.
func (h *Handler) Routes(r *gin.Engine) {
	metrics.RegisterDefault()
	r.Use(MetricsMiddleware())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	r.POST("/admin/login", h.Login)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.POST("/rotas", h.GenerateRota)
		api.GET("/rotas", h.ListRotas)
		api.GET("/rotas/:id", h.GetRota)
		api.POST("/rotas/:id/shifts", h.AddShift)
		api.GET("/rotas/:id/shifts/:shiftId/suggestions", h.Suggestions)
		api.POST("/rotas/:id/shifts/:shiftId/assignments", h.Assign)
		api.DELETE("/rotas/:id/shifts/:shiftId/assignments/:staffId", h.Remove)
		api.POST("/rotas/:id/import", h.Import)
		api.GET("/rotas/:id/export", h.Export)
		api.POST("/rotas/:id/autofill", h.AutoFill)
		api.POST("/rotas/:id/publish", h.Publish)
		api.POST("/rotas/:id/archive", h.Archive)
		api.GET("/staff", h.ListStaff)
	}
}

// AuthMiddleware verifies the JWT token for API routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// MetricsMiddleware records request counts and latencies per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks admin credentials and issues a session token
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), h.DB, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		h.Logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Healthz reports liveness plus storage reachability.
func (h *Handler) Healthz(c *gin.Context) {
	if h.Pinger != nil {
		if err := h.Pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondEngineError maps engine and store failures onto the API's
// status codes: broken business rules are 422, stale versions 409,
// unknown ids 404.
func (h *Handler) respondEngineError(c *gin.Context, err error) {
	var ineligible *roster.IneligibleError
	if errors.As(err, &ineligible) {
		violations := make([]gin.H, 0, len(ineligible.Violations))
		for _, v := range ineligible.Violations {
			violations = append(violations, gin.H{"rule": v.Rule, "description": v.Description})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           ineligible.Error(),
			"rule_violations": violations,
		})
		return
	}

	switch {
	case errors.Is(err, db.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotFound),
		errors.Is(err, roster.ErrUnknownShift),
		errors.Is(err, roster.ErrUnknownStaff):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrInvalidRequirement),
		errors.Is(err, roster.ErrDuplicateShift),
		errors.Is(err, roster.ErrAlreadyAssigned),
		errors.Is(err, roster.ErrNotAssigned),
		errors.Is(err, roster.ErrRoleSlotFull),
		errors.Is(err, roster.ErrMalformedImport),
		errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, services.ErrRotaArchived),
		errors.Is(err, services.ErrUnresolvedConflicts),
		errors.Is(err, services.ErrAlreadyArchived):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
