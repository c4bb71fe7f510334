package httpx

import (
	"encoding/json"
	"net/http"

	"fashionmart/internal/config"
	"fashionmart/internal/http/handlers"
	middlewarex "fashionmart/internal/http/middleware"
	"fashionmart/internal/services/collection"
	"fashionmart/internal/services/views"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config      config.Cfg
	Collections *collection.Service
	// SavedViews is nil when no database is configured
	SavedViews *views.Service
	Metrics    prometheus.Gatherer
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"env":         deps.Config.App.Env,
			"resources":   deps.Collections.Registry().Names(),
			"sessions":    deps.Collections.Sessions().Len(),
			"saved_views": deps.SavedViews != nil,
		})
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.BearerAuth)

		r.Get("/overview", handlers.Overview(deps.Collections))
		r.Get("/views/{resource}", handlers.ListView(deps.Collections))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", handlers.OpenSession(deps.Collections))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.RenderSession(deps.Collections))
				r.Delete("/", handlers.CloseSession(deps.Collections))
				r.Post("/refresh", handlers.RefreshSession(deps.Collections))
				r.Put("/filters/{key}", handlers.ApplyFilter(deps.Collections))
				r.Delete("/filters/{key}", handlers.ClearFilter(deps.Collections))
				r.Delete("/filters", handlers.ResetFilters(deps.Collections))
				r.Put("/sort", handlers.SetSort(deps.Collections))
				r.Post("/more", handlers.LoadMore(deps.Collections))
				r.Post("/items/{itemID}/{action}", handlers.ItemAction(deps.Collections))
				r.Delete("/items/{itemID}", handlers.DeleteItem(deps.Collections))
			})
		})

		r.Get("/{resource}/export", handlers.Export(deps.Collections))

		if deps.SavedViews != nil {
			r.Route("/saved-views", func(r chi.Router) {
				r.Get("/", handlers.ListSavedViews(deps.SavedViews))
				r.Post("/", handlers.CreateSavedView(deps.SavedViews))
				r.Get("/{id}", handlers.GetSavedView(deps.SavedViews))
				r.Delete("/{id}", handlers.DeleteSavedView(deps.SavedViews))
			})
		}
	})

	return r
}
