package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(httprate.Limit(500, time.Minute))
	r.Use(middleware.Heartbeat("/health"))
	r.Use(s.cacheControl)

	r.Mount("/static", http.FileServer(s.assets))

	r.Handle("/robots.txt", s.serveFile("static/robots.txt"))

	r.Get("/", s.HandleIndex)
	r.Get("/admin/login", s.HandleLoginPage)
	r.Post("/admin/login", s.HandleLogin)
	r.Get("/admin/logout", s.HandleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", s.HandleThemes)
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(120, time.Minute))
			r.Post("/track", s.HandleTrack)
			r.Post("/bridge", s.HandleBridge)
		})
	})

	r.Get("/l/{linkID}", s.HandleRedirect)

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/admin", s.HandleAdmin)
		r.Post("/admin/appearance", s.HandleUpdateAppearance)
		r.Post("/admin/links/add", s.HandleAddLink)
		r.Post("/admin/links/delete", s.HandleDeleteLink)
		r.Post("/admin/links/active", s.HandleToggleActive)
		r.Post("/admin/password", s.HandleUpdatePassword)
	})

	r.Get("/{username}", s.HandleProfile)
	r.Get("/{username}/frame", s.HandleFrame)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound)
	})

	return r
}
