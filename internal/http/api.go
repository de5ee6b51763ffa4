package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
	"outreach-records/internal/service"
)

// Options configures authentication and logging for the handler.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Logger    logrus.FieldLogger
	Clock     domain.Clock
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	records service.RecordService
	exports service.ExportService
	tokens  *tokenIssuer
	logger  logrus.FieldLogger
}

// NewHandler builds a Handler. exports may be nil, in which case the export
// routes are not registered.
func NewHandler(users service.UserService, records service.RecordService, exports service.ExportService, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	return &Handler{
		users:   users,
		records: records,
		exports: exports,
		tokens:  newTokenIssuer(opts.JWTSecret, opts.TokenTTL, opts.Clock),
		logger:  opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/students", h.listStudents)
		api.GET("/students/:id", h.getStudent)
		api.GET("/volunteers", h.listVolunteers)
		api.GET("/volunteers/:id", h.getVolunteer)
		api.GET("/donors", h.listDonors)
		api.GET("/donors/:id", h.getDonor)
	}

	authed := api.Group("", h.requireAuth())
	{
		authed.GET("/me", h.me)
		authed.PUT("/me", h.updateMe)
		authed.GET("/users", h.listUsers)
		authed.DELETE("/users/:id", h.deleteUser)

		authed.POST("/students", h.createStudent)
		authed.PUT("/students/:id", h.updateStudent)
		authed.DELETE("/students/:id", h.deleteStudent)
		authed.POST("/volunteers", h.createVolunteer)
		authed.PUT("/volunteers/:id", h.updateVolunteer)
		authed.DELETE("/volunteers/:id", h.deleteVolunteer)
		authed.POST("/donors", h.createDonor)
		authed.PUT("/donors/:id", h.updateDonor)
		authed.DELETE("/donors/:id", h.deleteDonor)

		if h.exports != nil {
			authed.POST("/exports", h.createExport)
			authed.GET("/exports", h.listExports)
			authed.DELETE("/exports/:stamp", h.deleteExport)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if actor := actorFrom(c); actor != "" {
			entry = entry.WithField("actor", actor)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

// writeError maps service and repository errors to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, repository.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

type jsonRecord interface {
	ToJSON() map[string]any
}

func toJSONList[T any, P interface {
	*T
	jsonRecord
}](items []T) []map[string]any {
	out := make([]map[string]any, len(items))
	for i := range items {
		out[i] = P(&items[i]).ToJSON()
	}
	return out
}
