package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"privatetube/internal/catalog"
	"privatetube/internal/identity"
	"privatetube/internal/metadata"
)

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListWithGrantCount(r.Context())
	if err != nil {
		log.Printf("admin: list users: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	role := identity.RoleUser
	if body.Role != "" {
		parsed, ok := identity.ParseRole(body.Role)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("admin: hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.users.Create(r.Context(), username, string(hash), role)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateUsername) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		log.Printf("admin: create user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("admin: delete user %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAdminAssignGrants replaces the user's whole grant set in one
// transaction; the request body is the complete desired list.
func (s *Server) handleAdminAssignGrants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body struct {
		PlaylistIDs []int64 `json:"playlistIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := s.users.Get(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("admin: get user %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.grants.ReplaceAll(r.Context(), id, body.PlaylistIDs); err != nil {
		log.Printf("admin: replace grants for user %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	grants, err := s.grants.GrantsFor(r.Context(), id)
	if err != nil {
		log.Printf("admin: reload grants for user %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	ids := make([]int64, 0, len(grants))
	for pid := range grants {
		ids = append(ids, pid)
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlistIds": ids})
}

func (s *Server) handleAdminListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.playlists.ListAll(r.Context())
	if err != nil {
		log.Printf("admin: list playlists: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

// handleAdminCreatePlaylist records no creator; the playlist starts in the
// legacy state and is claimable by whichever grantee edits it first.
func (s *Server) handleAdminCreatePlaylist(w http.ResponseWriter, r *http.Request) {
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
		Creator:     catalog.Unowned,
	})
	if err != nil {
		log.Printf("admin: create playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleAdminDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	if err := s.playlists.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		log.Printf("admin: delete playlist %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videos.ListAll(r.Context())
	if err != nil {
		log.Printf("admin: list videos: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleAdminCreateVideo(w http.ResponseWriter, r *http.Request) {
	var body createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Title) == "" || body.PlaylistID <= 0 {
		writeError(w, http.StatusBadRequest, "title and playlistId are required")
		return
	}

	youtubeID := metadata.ExtractVideoID(body.URL)
	if youtubeID == "" {
		writeError(w, http.StatusBadRequest, "invalid YouTube URL")
		return
	}

	if _, err := s.playlists.Get(r.Context(), body.PlaylistID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		log.Printf("admin: get playlist %d: %v", body.PlaylistID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	video, err := s.videos.Create(r.Context(), catalog.Video{
		Title:      strings.TrimSpace(body.Title),
		YouTubeID:  youtubeID,
		IsActive:   true,
		PlaylistID: body.PlaylistID,
		Creator:    catalog.Unowned,
	})
	if err != nil {
		log.Printf("admin: create video: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

func (s *Server) handleAdminDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	if err := s.videos.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		log.Printf("admin: delete video %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
