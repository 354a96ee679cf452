package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
)

const browsePageSize = 20

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			page = v
		}
	}

	videos, err := s.videos.ListVisible(r.Context(), ident, page, browsePageSize)
	if err != nil {
		log.Printf("videos: list: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"videos": videos,
		"page":   page,
	})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	playlists, err := s.playlists.ListVisible(r.Context(), ident)
	if err != nil {
		log.Printf("playlists: list: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playlists": playlists,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	videos, err := s.videos.SearchVisible(r.Context(), ident, query)
	if err != nil {
		log.Printf("search: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"videos": videos,
	})
}
