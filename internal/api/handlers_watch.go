package api

import (
	"errors"
	"log"
	"net/http"

	"privatetube/internal/access"
	"privatetube/internal/catalog"
)

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	ident, ok := requestIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := s.videos.GetActive(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			// Same answer as an inaccessible video; existence is not
			// disclosed to viewers without a grant.
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		log.Printf("watch: get video %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	grants, err := s.grants.GrantsFor(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("watch: load grants: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !access.CanView(ident, video.PlaylistID, grants) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	candidates, err := s.videos.ListWatchCandidates(r.Context(), ident, video.ID)
	if err != nil {
		log.Printf("watch: list candidates: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	next, recommended := s.selector.Pick(video, candidates)

	writeJSON(w, http.StatusOK, map[string]any{
		"video":       video,
		"nextVideo":   next,
		"recommended": recommended,
	})
}
