// Package http wires the REST API: routes, middleware, and the server
// lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
	"github.com/laborguard/complaint-service/internal/interfaces/http/handlers"
	"github.com/laborguard/complaint-service/internal/interfaces/http/middleware"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// route tree.
type RouterConfig struct {
	ComplaintHandler   *handlers.ComplaintHandler
	AppointmentHandler *handlers.AppointmentHandler
	RegistryHandler    *handlers.RegistryHandler
	HealthHandler      *handlers.HealthHandler

	AuthMiddleware    *middleware.AuthMiddleware
	LoggingMiddleware *middleware.LoggingMiddleware
	CORSMiddleware    *middleware.CORSMiddleware
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}

	// Public probes and metrics.
	r.Get("/healthz", cfg.HealthHandler.Liveness)
	r.Get("/readyz", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", prometheus.Handler())

	staff := middleware.RequireRoles(common.RoleLegalOfficer, common.RoleAdmin)
	adminOnly := middleware.RequireRoles(common.RoleAdmin)
	workers := middleware.RequireRoles(common.RoleWorker)
	officers := middleware.RequireRoles(common.RoleLegalOfficer)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(cfg.AuthMiddleware.Handler)

		api.Route("/complaints", func(cr chi.Router) {
			cr.With(workers).Post("/", cfg.ComplaintHandler.Create)
			cr.With(adminOnly).Get("/", cfg.ComplaintHandler.List)
			cr.Get("/my", cfg.ComplaintHandler.ListMine)
			cr.With(staff).Get("/stats", cfg.ComplaintHandler.Stats)

			cr.Route("/{id}", func(ir chi.Router) {
				ir.Get("/", cfg.ComplaintHandler.Get)
				ir.Put("/", cfg.ComplaintHandler.Update)
				ir.Delete("/", cfg.ComplaintHandler.Delete)
				ir.With(staff).Patch("/status", cfg.ComplaintHandler.UpdateStatus)
				ir.With(adminOnly).Patch("/assign", cfg.ComplaintHandler.Assign)
				ir.Post("/attachments", cfg.ComplaintHandler.UploadAttachment)
				ir.Get("/attachments/{index}", cfg.ComplaintHandler.DownloadAttachment)
				ir.Get("/report", cfg.ComplaintHandler.Report)
			})
		})

		api.Route("/appointments", func(ar chi.Router) {
			ar.Get("/", cfg.AppointmentHandler.List)
			ar.Get("/my", cfg.AppointmentHandler.ListMine)
			ar.With(officers).Get("/assigned", cfg.AppointmentHandler.ListAssigned)
			ar.Route("/{id}", func(ir chi.Router) {
				ir.Get("/", cfg.AppointmentHandler.Get)
				ir.With(adminOnly).Patch("/confirm", cfg.AppointmentHandler.Confirm)
				ir.With(staff).Patch("/reschedule", cfg.AppointmentHandler.Reschedule)
				ir.With(adminOnly).Patch("/cancel", cfg.AppointmentHandler.Cancel)
				ir.With(staff).Patch("/complete", cfg.AppointmentHandler.Complete)
			})
		})

		api.Route("/registry", func(rr chi.Router) {
			rr.Use(staff)
			rr.With(adminOnly).Post("/", cfg.RegistryHandler.Register)
			rr.Get("/", cfg.RegistryHandler.List)
			rr.With(adminOnly).Get("/stats", cfg.RegistryHandler.Stats)
			rr.Get("/{officerID}", cfg.RegistryHandler.Get)
			rr.With(adminOnly).Put("/{officerID}", cfg.RegistryHandler.Update)
			rr.With(adminOnly).Patch("/{officerID}/deactivate", cfg.RegistryHandler.Deactivate)
		})
	})

	return r
}
