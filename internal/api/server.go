// Package api is the HTTP surface of the catalog service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"privatetube/internal/auth"
	"privatetube/internal/catalog"
	"privatetube/internal/recommend"
)

type Server struct {
	users     *catalog.UserRepo
	playlists *catalog.PlaylistRepo
	videos    *catalog.VideoRepo
	grants    *catalog.GrantRepo
	issuer    *auth.Issuer
	selector  *recommend.Selector
}

func NewServer(db catalog.DB, issuer *auth.Issuer, selector *recommend.Selector) *Server {
	return &Server{
		users:     catalog.NewUserRepo(db),
		playlists: catalog.NewPlaylistRepo(db),
		videos:    catalog.NewVideoRepo(db),
		grants:    catalog.NewGrantRepo(db),
		issuer:    issuer,
		selector:  selector,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/refresh", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/auth/me", s.handleMe)

		// Browse & watch
		r.Get("/videos", s.handleListVideos)
		r.Get("/playlists", s.handleListPlaylists)
		r.Get("/search", s.handleSearch)
		r.Get("/watch/{id}", s.handleWatch)

		// Self-service management
		r.Get("/studio", s.handleStudioIndex)
		r.Post("/studio/playlists", s.handleStudioCreatePlaylist)
		r.Put("/studio/playlists/{id}", s.handleStudioEditPlaylist)
		r.Delete("/studio/playlists/{id}", s.handleStudioDeletePlaylist)
		r.Post("/studio/videos", s.handleStudioCreateVideo)
		r.Delete("/studio/videos/{id}", s.handleStudioDeleteVideo)

		// Admin console
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/admin/users", s.handleAdminListUsers)
			r.Post("/admin/users", s.handleAdminCreateUser)
			r.Delete("/admin/users/{id}", s.handleAdminDeleteUser)
			r.Put("/admin/users/{id}/grants", s.handleAdminAssignGrants)

			r.Get("/admin/playlists", s.handleAdminListPlaylists)
			r.Post("/admin/playlists", s.handleAdminCreatePlaylist)
			r.Delete("/admin/playlists/{id}", s.handleAdminDeletePlaylist)

			r.Get("/admin/videos", s.handleAdminListVideos)
			r.Post("/admin/videos", s.handleAdminCreateVideo)
			r.Delete("/admin/videos/{id}", s.handleAdminDeleteVideo)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "privatetube",
	})
}
