package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sealed-pack-tracking-service/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters); authorization is applied here, per route, from the
// policy table.
func NewRouter(engine handlers.TrackingService, policy RolePolicy) http.Handler {
	eventHandler := &handlers.EventHandler{Engine: engine}
	taskHandler := &handlers.TaskHandler{Engine: engine}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Route("/api/tasks/{id}", func(r chi.Router) {
		r.With(Require(policy, OpSubmitEvent)).Post("/events", eventHandler.Submit)
		r.With(Require(policy, OpReadTask)).Get("/", taskHandler.Get)
		r.With(Require(policy, OpReadTask)).Get("/timeline", taskHandler.Timeline)
	})

	return r
}
