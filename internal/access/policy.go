// Package access holds the pure authorization rules. Every function takes the
// acting identity and a pre-loaded grant snapshot, so the rules can be tested
// without a database and applied identically on SQL and in-memory paths.
package access

import (
	"privatetube/internal/catalog"
	"privatetube/internal/identity"
)

// CanView reports whether ident may see content belonging to playlistID.
// Admins see everything; everyone else needs a grant on the playlist.
func CanView(ident identity.Identity, playlistID int64, grants catalog.GrantSet) bool {
	if ident.IsAdmin() {
		return true
	}
	return grants.Has(playlistID)
}

// FilterPlaylists keeps the playlists ident may view, preserving order.
func FilterPlaylists(ident identity.Identity, playlists []catalog.Playlist, grants catalog.GrantSet) []catalog.Playlist {
	if ident.IsAdmin() {
		return playlists
	}
	out := []catalog.Playlist{}
	for _, p := range playlists {
		if grants.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// FilterVideos keeps the videos whose playlist ident may view, preserving order.
func FilterVideos(ident identity.Identity, videos []catalog.Video, grants catalog.GrantSet) []catalog.Video {
	if ident.IsAdmin() {
		return videos
	}
	out := []catalog.Video{}
	for _, v := range videos {
		if grants.Has(v.PlaylistID) {
			out = append(out, v)
		}
	}
	return out
}
