package catalog

import (
	"time"

	"privatetube/internal/identity"
)

// User is an account on the catalog. Role and the active flag gate every
// surface; grants gate everything else.
type User struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Role      identity.Role `json:"role"`
	IsActive  bool          `json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Ownership is the creator reference of a playlist or video. Entities that
// predate creator tracking are Unowned; any grantee counts as their owner for
// mutation purposes until one of them edits the entity and claims it.
type Ownership struct {
	userID int64
	known  bool
}

// Unowned is the zero Ownership, a legacy entity with no recorded creator.
var Unowned = Ownership{}

func OwnedBy(userID int64) Ownership {
	return Ownership{userID: userID, known: true}
}

func (o Ownership) IsOwner(userID int64) bool {
	return o.known && o.userID == userID
}

func (o Ownership) Known() bool {
	return o.known
}

// Ptr returns the nullable column representation.
func (o Ownership) Ptr() *int64 {
	if !o.known {
		return nil
	}
	uid := o.userID
	return &uid
}

func ownershipFrom(p *int64) Ownership {
	if p == nil {
		return Unowned
	}
	return OwnedBy(*p)
}

type Playlist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Creator     Ownership `json:"-"`
}

// ClaimedBy is the Unowned -> Owned transition performed on a successful edit
// of a legacy playlist. Idempotent: once claimed the creator never changes.
func (p Playlist) ClaimedBy(userID int64) Playlist {
	if !p.Creator.Known() {
		p.Creator = OwnedBy(userID)
	}
	return p
}

type Video struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	YouTubeID  string    `json:"youtubeId"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	PlaylistID int64     `json:"playlistId"`
	Creator    Ownership `json:"-"`
}

// AccessGrant authorizes one user to view one playlist and its videos. The
// pair is unique; existence of the row is the whole read-authorization fact.
type AccessGrant struct {
	UserID     int64     `json:"userId"`
	PlaylistID int64     `json:"playlistId"`
	CreatedAt  time.Time `json:"createdAt"`
}
