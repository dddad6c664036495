package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/socialchef/recipe-finder/internal/middleware"
	"github.com/socialchef/recipe-finder/internal/sentry"
)

// NewRouter mounts the web form, the JSON API and the admin document upload
// behind tracing, HTTP metrics, CORS and Sentry middleware.
func NewRouter(s *Server) chi.Router {
	serviceName := s.cfg.ServiceName
	if serviceName == "" {
		serviceName = "recipe-finder"
	}

	r := chi.NewRouter()

	r.Use(otelchi.Middleware(serviceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(serviceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(sentry.HTTPMiddleware)

	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleIndex)
	r.Post("/", s.HandleIndexSubmit)
	r.Post("/api/recipe", s.HandleFetchRecipe)

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.cfg))
		r.Use(middleware.RequireRole(middleware.AdminRole, "service_role"))
		r.Post("/api/documents", s.HandleUploadDocument)
	})

	return r
}
