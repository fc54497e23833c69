package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/vetanhq/payroll-backend-go/internal/handler/http/middleware"
)

func NewRouter(logger *slog.Logger, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Tenant-ID"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.TenantRequired)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.List)
			r.Post("/reprocess", attendanceHandler.Reprocess)
			r.Post("/sync", attendanceHandler.Sync)
			r.Post("/cache/invalidate", attendanceHandler.InvalidateCache)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", payrollHandler.List)
			r.Post("/generate", payrollHandler.Generate)
		})

		r.Route("/compliance", func(r chi.Router) {
			r.Get("/pt", payrollHandler.ProfessionalTax)
		})
	})

	return r
}
