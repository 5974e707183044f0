package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/care-scheduler/internal/handlers"
	"github.com/BruksfildServices01/care-scheduler/internal/metrics"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
)

type Handlers struct {
	Appointments *handlers.AppointmentHandler
	ServiceTypes *handlers.ServiceTypeHandler
	AuditLogs    *handlers.AuditLogsHandler
}

type Options struct {
	JWTSecret   string
	CORSOrigins []string
	Log         *zap.Logger
	Metrics     *metrics.Collector
}

func RegisterRoutes(r *gin.Engine, h Handlers, opt Options) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opt.Log),
		middleware.Metrics(opt.Metrics),
		middleware.CORSMiddleware(opt.CORSOrigins),
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(opt.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(opt.JWTSecret))
	{
		api.GET("/service-types", h.ServiceTypes.List)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.POST("/appointments", h.Appointments.Create)
		api.GET("/appointments", h.Appointments.List)
		api.GET("/appointments/:id", h.Appointments.Get)
		api.GET("/appointments/:id/actions", h.Appointments.Actions)
		api.POST("/appointments/:id/cancel", h.Appointments.Cancel)
		api.POST("/appointments/:id/rating", h.Appointments.Rate)

		// ------------------------------
		// AVAILABILITY / PRICING
		// ------------------------------
		api.POST("/availability/check", h.Appointments.CheckAvailability)
		api.GET("/providers/:id/slots", h.Appointments.Slots)
		api.GET("/providers/:id/rating", h.Appointments.ProviderRating)
		api.POST("/quotes", h.Appointments.Quote)

		// ------------------------------
		// STAFF
		// ------------------------------
		staff := api.Group("/")
		staff.Use(middleware.RequireStaff())
		{
			staff.PATCH("/appointments/:id", h.Appointments.Update)
			staff.POST("/appointments/:id/approve", h.Appointments.Approve)
			staff.POST("/appointments/:id/reject", h.Appointments.Reject)
			staff.POST("/appointments/:id/complete", h.Appointments.Complete)
			staff.POST("/appointments/batch-status", h.Appointments.BatchStatus)

			staff.GET("/statistics", h.Appointments.Statistics)
			staff.GET("/providers/:id/calendar", h.Appointments.Calendar)
			staff.GET("/audit-logs", h.AuditLogs.List)
		}
	}
}
