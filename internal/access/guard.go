package access

import (
	"privatetube/internal/catalog"
	"privatetube/internal/identity"
)

// CanMutatePlaylist reports whether ident may edit or delete the playlist in
// the self-service surface. The recorded creator always may. A playlist with
// no recorded creator is treated as owned by each of its grantees until one of
// them edits it and the claim is persisted. Admin role grants no shortcut
// here; the admin console has its own unconditional path.
func CanMutatePlaylist(ident identity.Identity, p catalog.Playlist, grants catalog.GrantSet) bool {
	if p.Creator.IsOwner(ident.UserID) {
		return true
	}
	return !p.Creator.Known() && grants.Has(p.ID)
}

// CanMutateVideo reports whether ident may delete the video. The video's own
// creator may, and so may anyone allowed to mutate the playlist it sits in,
// so a playlist owner can remove videos added by other grantees.
func CanMutateVideo(ident identity.Identity, v catalog.Video, owning catalog.Playlist, grants catalog.GrantSet) bool {
	if v.Creator.IsOwner(ident.UserID) {
		return true
	}
	return CanMutatePlaylist(ident, owning, grants)
}
