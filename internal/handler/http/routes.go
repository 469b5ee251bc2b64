package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	// record store, bearer token required
	router.Route("/api/store", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/{collection}", h.createRecord)
		r.Get("/{collection}", h.listRecords)
		r.Get("/{collection}/{id}", h.getRecord)
		r.Put("/{collection}/{id}", h.putRecord)
		r.Delete("/{collection}/{id}", h.deleteRecord)
	})

	return router
}
