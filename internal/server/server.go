// Package server exposes the dashboard over HTTP: the page shell and login
// form as HTML, everything under /api as JSON. Route handlers stay thin;
// module behavior lives behind the dispatcher.
package server

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Nihilentropy-117/Web-Controller/internal/auth"
	"github.com/Nihilentropy-117/Web-Controller/internal/dispatch"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
	"github.com/Nihilentropy-117/Web-Controller/web"
)

// Server wires the router, the session gate, and the module system.
type Server struct {
	reg        *registry.Registry
	dispatcher *dispatch.Dispatcher
	gate       *auth.Gate
	router     chi.Router
}

// New builds the HTTP surface. The login form and its submission endpoint
// are the only routes outside the session gate, besides /health.
func New(reg *registry.Registry, dispatcher *dispatch.Dispatcher, gate *auth.Gate) *Server {
	s := &Server{
		reg:        reg,
		dispatcher: dispatcher,
		gate:       gate,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLoginSubmit)
	r.Get("/logout", s.handleLogout)

	staticFS, err := fs.Sub(web.Assets, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(gate.Require)
		r.Get("/", s.handleIndex)
		r.Get("/api/modules", s.handleListModules)
		r.Get("/api/modules/{id}/status", s.handleModuleStatus)
		r.Post("/api/modules/{id}/action", s.handleModuleAction)
		r.Get("/api/reload", s.handleReload)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
