package app

import (
	"net/http"
	"time"

	"eduexercise/internal/app/apiresp"
	"eduexercise/internal/app/observability"
	"eduexercise/internal/bank"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(cfg Config, bankHandler *bank.Handler, obs *observability.Collector) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if obs != nil {
		r.Use(obs.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", csrfHeaderName, middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	importLimiter := NewIPRateLimiter(cfg.ImportRateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	if obs != nil {
		r.Method(http.MethodGet, "/metrics", obs.MetricsHandler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/csrf", CSRFTokenHandler(!cfg.IsDevelopment()))

		api.Get("/questions", bankHandler.List)
		api.Get("/questions/template", bankHandler.Template)
		api.Get("/questions/export", bankHandler.ExportStored)
		api.Get("/questions/{id}", bankHandler.Get)

		api.Group(func(mut chi.Router) {
			mut.Use(CSRFMiddleware(cfg.CSRFEnforced))
			mut.With(RateLimitMiddleware(importLimiter)).Post("/questions/import", bankHandler.Import)
			mut.Post("/questions/export", bankHandler.Export)
			mut.Post("/answer-sheets/layout", bankHandler.Layout)
			mut.Post("/answer-sheets/print", bankHandler.Print)
			mut.Post("/answer-sheets/pdf", bankHandler.PDF)
		})
	})

	return r
}
