package routes

import (
	"net/http"

	"streetaid/internal/config"
	"streetaid/internal/geocache"
	"streetaid/internal/handlers"
	"streetaid/internal/logger"
	"streetaid/internal/metrics"
	mdlwr "streetaid/internal/middleware"
	"streetaid/internal/overpass"
	"streetaid/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	logMW := mdlwr.NewLoggingMiddleware(logr.Logger)
	r.Use(logMW.RequestLogger)

	// CORS middleware with config (the map frontend runs in the browser)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Shelter lookup: Overpass client behind the viewport cache
	shelterCache := geocache.New(cfg.ShelterCacheTTL)
	overpassClient := overpass.NewClient(cfg.OverpassURL, cfg.OverpassTimeout, logr.Logger)
	shelterSvc := services.NewShelterService(shelterCache, overpassClient, logr.Logger)
	alertSvc := services.NewAlertService(db)

	shelterHandler := handlers.NewShelterHandler(shelterSvc, logr.Logger)
	alertHandler := handlers.NewAlertHandler(alertSvc, shelterSvc, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/shelters", func(r chi.Router) {
			r.Get("/", shelterHandler.GetShelters)

			r.Route("/cache", func(r chi.Router) {
				r.Get("/stats", shelterHandler.GetCacheStats)
				r.Post("/clear", shelterHandler.ClearCache)
			})
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", alertHandler.GetAlerts)
			r.Get("/nearest-shelter", alertHandler.GetNearestShelters)
		})
	})

	return r
}
