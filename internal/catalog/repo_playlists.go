package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"privatetube/internal/identity"
)

type PlaylistRepo struct {
	db DB
}

func NewPlaylistRepo(db DB) *PlaylistRepo {
	return &PlaylistRepo{db: db}
}

func (r *PlaylistRepo) Get(ctx context.Context, id int64) (Playlist, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, description, creator_id
		FROM playlists
		WHERE id = $1
	`, id)
	return scanPlaylist(row)
}

// ListVisible returns the playlists the viewer may browse: all of them for an
// admin, granted ones otherwise.
func (r *PlaylistRepo) ListVisible(ctx context.Context, ident identity.Identity) ([]Playlist, error) {
	if ident.IsAdmin() {
		return r.queryPlaylists(ctx, `
			SELECT id, name, description, creator_id
			FROM playlists
			ORDER BY id
		`)
	}
	return r.queryPlaylists(ctx, `
		SELECT p.id, p.name, p.description, p.creator_id
		FROM playlists p
		WHERE EXISTS (
			SELECT 1 FROM playlist_grants pg
			WHERE pg.user_id = $1 AND pg.playlist_id = p.id
		)
		ORDER BY p.id
	`, ident.UserID)
}

// ListGranted is the studio listing; admins get no bypass on this surface.
func (r *PlaylistRepo) ListGranted(ctx context.Context, userID int64) ([]Playlist, error) {
	return r.queryPlaylists(ctx, `
		SELECT p.id, p.name, p.description, p.creator_id
		FROM playlists p
		WHERE EXISTS (
			SELECT 1 FROM playlist_grants pg
			WHERE pg.user_id = $1 AND pg.playlist_id = p.id
		)
		ORDER BY p.id
	`, userID)
}

func (r *PlaylistRepo) ListAll(ctx context.Context) ([]Playlist, error) {
	return r.queryPlaylists(ctx, `
		SELECT id, name, description, creator_id
		FROM playlists
		ORDER BY id
	`)
}

func (r *PlaylistRepo) Create(ctx context.Context, p Playlist) (Playlist, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO playlists (name, description, creator_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, creator_id
	`, p.Name, p.Description, p.Creator.Ptr())
	return scanPlaylist(row)
}

// Update persists name, description and creator. Writing the creator here is
// what makes the claim-on-edit transition durable.
func (r *PlaylistRepo) Update(ctx context.Context, p Playlist) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE playlists
		SET name = $2, description = $3, creator_id = $4
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Creator.Ptr())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlaylistRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlaylistRepo) queryPlaylists(ctx context.Context, sql string, args ...any) ([]Playlist, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		p, err := scanPlaylistRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

func scanPlaylist(row pgx.Row) (Playlist, error) {
	p, err := scanPlaylistRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Playlist{}, ErrNotFound
		}
		return Playlist{}, err
	}
	return p, nil
}

func scanPlaylistRow(row pgx.Row) (Playlist, error) {
	var p Playlist
	var creatorID *int64
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &creatorID); err != nil {
		return Playlist{}, err
	}
	p.Creator = ownershipFrom(creatorID)
	return p, nil
}
