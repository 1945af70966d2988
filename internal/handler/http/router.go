package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(payrollHandler PayrollHandler, allowedOrigins []string, env string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sentra-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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
		r.Route("/payroll", func(r chi.Router) {
			r.Route("/report", func(r chi.Router) {
				r.Get("/monthly", payrollHandler.MonthlyReport)
				r.Get("/range", payrollHandler.RangeReport)
			})

			r.Route("/sheets", func(r chi.Router) {
				r.Get("/", payrollHandler.ListSheetEntries)
				r.Post("/", payrollHandler.UpsertSheetEntries)
				r.Delete("/{id}", payrollHandler.DeleteSheetEntry)
			})

			r.Route("/advances", func(r chi.Router) {
				r.Get("/", payrollHandler.ListAdvances)
				r.Put("/", payrollHandler.UpsertAdvance)
			})

			r.Post("/payment-status", payrollHandler.UpsertPaymentStatus)
			r.Get("/clearance", payrollHandler.ClearanceReport)
		})
	})

	return r
}
