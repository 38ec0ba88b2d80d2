// Package api exposes the tracker over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"procrastination-tracker/internal/services"
)

type Handler struct {
	services *services.ServiceManager
}

func NewRouter(sm *services.ServiceManager, allowedOrigins []string) http.Handler {
	h := &Handler{services: sm}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/analytics", h.getAnalytics)
		r.Get("/analytics/recommendations", h.getRecommendations)
		r.Get("/dashboard", h.getDashboard)
		r.Get("/reports/weekly", h.getWeeklyReport)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.listTasks)
			r.Post("/", h.createTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getTask)
				r.Put("/", h.updateTask)
				r.Delete("/", h.deleteTask)
				r.Post("/start", h.startTask)
				r.Post("/complete", h.completeTask)
			})
		})

		r.Route("/procrastination-logs", func(r chi.Router) {
			r.Get("/", h.listLogs)
			r.Post("/", h.createLog)
			r.Get("/{id}", h.getLog)
		})

		r.Get("/reasons", h.listReasons)
		r.Get("/emotions", h.listEmotions)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
