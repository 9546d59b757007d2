package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/handler"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/middleware"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/observability"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
	WeatherHandler  *handler.WeatherHandler
	LandmarkHandler *handler.LandmarkHandler
	// RateLimiter guards the proxy endpoints when non-nil.
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.SugaredLogger
}

func NewRouter(d Deps) http.Handler {
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(observability.MetricsMiddleware)
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.CorrelationIDHeader},
		ExposedHeaders: []string{"X-Cache", middleware.CorrelationIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", observability.Handler())

	r.Group(func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}
		r.Get("/weather", d.WeatherHandler.HandleWeather)
		r.Route("/api", func(r chi.Router) {
			r.Get("/weather", d.WeatherHandler.HandleWeather)
			r.Get("/landmark", d.LandmarkHandler.HandleLandmark)
		})
	})

	return r
}
