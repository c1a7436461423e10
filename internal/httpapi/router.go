package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"quiz-widget/internal/quiz"
)

func NewRouter(service *quiz.Service, log *zap.Logger, opts Options) http.Handler {
	api := NewAPI(service, log, opts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(api.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/", api.HandlePage)
	r.Post("/actions/{action}", api.HandlePageAction)

	r.Route("/api/sessions", func(sessions chi.Router) {
		sessions.Post("/", api.HandleCreateSession)
		sessions.Get("/{id}", api.HandleGetSession)
		sessions.Post("/{id}/actions", api.HandleSessionAction)
		sessions.Delete("/{id}", api.HandleDeleteSession)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return r
}
