package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shift-management/internal/auth"
	"github.com/frahmantamala/shift-management/internal/collaborator"
	"github.com/frahmantamala/shift-management/internal/schedule"
	"github.com/frahmantamala/shift-management/internal/shift"
	"github.com/frahmantamala/shift-management/internal/transport/middleware"
	"github.com/frahmantamala/shift-management/internal/transport/swagger"
	"github.com/frahmantamala/shift-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, authHandler *auth.Handler, userHandler *user.Handler, scheduleHandler *schedule.Handler, shiftHandler *shift.Handler, collaboratorHandler *collaborator.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
					pr.Patch("/users/me/language", userHandler.UpdateLanguage)
				}

				if scheduleHandler != nil {
					pr.Route("/schedules", func(er chi.Router) {
						er.Post("/", scheduleHandler.CreateSchedule)
						er.Get("/", scheduleHandler.ListSchedules)

						er.Route("/{id}", func(ir chi.Router) {
							ir.Get("/", scheduleHandler.ViewSchedule)
							ir.Delete("/", scheduleHandler.DeleteSchedule)
							ir.Put("/shift-types", scheduleHandler.UpdateShiftTypes)
							ir.Get("/export", scheduleHandler.ExportSchedule)

							if collaboratorHandler != nil {
								ir.Post("/join", collaboratorHandler.JoinSchedule)
								ir.Delete("/collaborators/{userID}", collaboratorHandler.RemoveCollaborator)
							}

							if shiftHandler != nil {
								ir.Post("/shifts", shiftHandler.AddShift)
								ir.Delete("/shifts/{shiftID}", shiftHandler.DeleteShift)
								ir.Get("/shifts/search", shiftHandler.SearchShifts)
							}
						})
					})
				}
			})
		}
	})
}
