package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"privatetube/internal/access"
	"privatetube/internal/catalog"
	"privatetube/internal/metadata"
)

// handleStudioIndex lists everything the user can work with: the playlists
// they hold grants on and the videos inside them, including inactive ones.
func (s *Server) handleStudioIndex(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	playlists, err := s.playlists.ListGranted(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("studio: list playlists: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	videos, err := s.videos.ListGranted(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("studio: list videos: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playlists": playlists,
		"videos":    videos,
	})
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleStudioCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var body playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlist, err := s.playlists.Create(r.Context(), catalog.Playlist{
		Name:        strings.TrimSpace(body.Name),
		Description: body.Description,
		Creator:     catalog.OwnedBy(ident.UserID),
	})
	if err != nil {
		log.Printf("studio: create playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The creator grants themselves access so their own playlist shows up
	// on their browse and studio pages.
	if err := s.grants.Grant(r.Context(), ident.UserID, playlist.ID); err != nil {
		log.Printf("studio: self-grant playlist %d: %v", playlist.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleStudioEditPlaylist(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var body playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlist, grants, ok := s.loadPlaylistForMutation(w, r, ident.UserID, id)
	if !ok {
		return
	}
	if !access.CanMutatePlaylist(ident, playlist, grants) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	// Editing a playlist that predates creator tracking makes the editor
	// its permanent creator.
	playlist = playlist.ClaimedBy(ident.UserID)
	playlist.Name = strings.TrimSpace(body.Name)
	playlist.Description = body.Description

	if err := s.playlists.Update(r.Context(), playlist); err != nil {
		log.Printf("studio: update playlist %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleStudioDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, grants, ok := s.loadPlaylistForMutation(w, r, ident.UserID, id)
	if !ok {
		return
	}
	if !access.CanMutatePlaylist(ident, playlist, grants) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := s.playlists.Delete(r.Context(), id); err != nil {
		log.Printf("studio: delete playlist %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createVideoRequest struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	PlaylistID int64  `json:"playlistId"`
}

func (s *Server) handleStudioCreateVideo(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var body createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Title) == "" || body.PlaylistID <= 0 {
		writeError(w, http.StatusBadRequest, "title and playlistId are required")
		return
	}

	// Any grantee may add videos to a granted playlist; ownership rules
	// only apply to edits and deletes.
	grants, err := s.grants.GrantsFor(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("studio: load grants: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !grants.Has(body.PlaylistID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	youtubeID := metadata.ExtractVideoID(body.URL)
	if youtubeID == "" {
		writeError(w, http.StatusBadRequest, "invalid YouTube URL")
		return
	}

	video, err := s.videos.Create(r.Context(), catalog.Video{
		Title:      strings.TrimSpace(body.Title),
		YouTubeID:  youtubeID,
		IsActive:   true,
		PlaylistID: body.PlaylistID,
		Creator:    catalog.OwnedBy(ident.UserID),
	})
	if err != nil {
		log.Printf("studio: create video: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

func (s *Server) handleStudioDeleteVideo(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := s.videos.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		log.Printf("studio: get video %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	playlist, grants, ok := s.loadPlaylistForMutation(w, r, ident.UserID, video.PlaylistID)
	if !ok {
		return
	}
	if !access.CanMutateVideo(ident, video, playlist, grants) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := s.videos.Delete(r.Context(), id); err != nil {
		log.Printf("studio: delete video %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadPlaylistForMutation(w http.ResponseWriter, r *http.Request, userID, playlistID int64) (catalog.Playlist, catalog.GrantSet, bool) {
	playlist, err := s.playlists.Get(r.Context(), playlistID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
		} else {
			log.Printf("studio: get playlist %d: %v", playlistID, err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return catalog.Playlist{}, nil, false
	}

	grants, err := s.grants.GrantsFor(r.Context(), userID)
	if err != nil {
		log.Printf("studio: load grants: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return catalog.Playlist{}, nil, false
	}

	return playlist, grants, true
}
