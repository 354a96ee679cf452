package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"privatetube/internal/identity"
)

const videoColumns = `v.id, v.title, v.youtube_id, v.is_active, v.created_at, v.playlist_id, v.creator_id`

// grantExists is the SQL form of the read-authorization predicate: a video is
// visible iff a grant row exists for its playlist.
const grantExists = `EXISTS (
	SELECT 1 FROM playlist_grants pg
	WHERE pg.user_id = $1 AND pg.playlist_id = v.playlist_id
)`

type VideoRepo struct {
	db DB
}

func NewVideoRepo(db DB) *VideoRepo {
	return &VideoRepo{db: db}
}

// GetActive fetches one active video regardless of grants; the caller applies
// the visibility check. Inactive videos are invisible on every viewer path.
func (r *VideoRepo) GetActive(ctx context.Context, id int64) (Video, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		WHERE v.id = $1 AND v.is_active
	`, id)
	return scanVideo(row)
}

func (r *VideoRepo) Get(ctx context.Context, id int64) (Video, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		WHERE v.id = $1
	`, id)
	return scanVideo(row)
}

// ListVisible returns one page of the browse feed, newest first. Admins see
// every active video; other users only videos in granted playlists.
func (r *VideoRepo) ListVisible(ctx context.Context, ident identity.Identity, page, pageSize int) ([]Video, error) {
	if ident.IsAdmin() {
		return r.queryVideos(ctx, `
			SELECT `+videoColumns+`
			FROM videos v
			WHERE v.is_active
			ORDER BY v.created_at DESC, v.id DESC
			LIMIT $1 OFFSET $2
		`, pageSize, page*pageSize)
	}
	return r.queryVideos(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		WHERE v.is_active AND `+grantExists+`
		ORDER BY v.created_at DESC, v.id DESC
		LIMIT $2 OFFSET $3
	`, ident.UserID, pageSize, page*pageSize)
}

// SearchVisible matches a title substring over the viewer's visible videos.
func (r *VideoRepo) SearchVisible(ctx context.Context, ident identity.Identity, query string) ([]Video, error) {
	pattern := "%" + query + "%"
	if ident.IsAdmin() {
		return r.queryVideos(ctx, `
			SELECT `+videoColumns+`
			FROM videos v
			WHERE v.is_active AND v.title ILIKE $1
			ORDER BY v.created_at DESC, v.id DESC
		`, pattern)
	}
	return r.queryVideos(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		WHERE v.is_active AND v.title ILIKE $2 AND `+grantExists+`
		ORDER BY v.created_at DESC, v.id DESC
	`, ident.UserID, pattern)
}

// ListWatchCandidates returns every visible active video except the one being
// watched; the recommendation selector works over this set.
func (r *VideoRepo) ListWatchCandidates(ctx context.Context, ident identity.Identity, excludeID int64) ([]Video, error) {
	if ident.IsAdmin() {
		return r.queryVideos(ctx, `
			SELECT `+videoColumns+`
			FROM videos v
			WHERE v.is_active AND v.id <> $1
		`, excludeID)
	}
	return r.queryVideos(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		WHERE v.is_active AND v.id <> $2 AND `+grantExists+`
	`, ident.UserID, excludeID)
}

// ListGranted is the studio listing: every video in a playlist the user holds
// a grant on, newest first, including the user's inactive uploads.
func (r *VideoRepo) ListGranted(ctx context.Context, userID int64) ([]Video, error) {
	return r.queryVideos(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		WHERE `+grantExists+`
		ORDER BY v.created_at DESC, v.id DESC
	`, userID)
}

// ListAll is the admin management view; inactive videos included.
func (r *VideoRepo) ListAll(ctx context.Context) ([]Video, error) {
	return r.queryVideos(ctx, `
		SELECT `+videoColumns+`
		FROM videos v
		ORDER BY v.created_at DESC, v.id DESC
	`)
}

func (r *VideoRepo) Create(ctx context.Context, v Video) (Video, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO videos (title, youtube_id, is_active, playlist_id, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, youtube_id, is_active, created_at, playlist_id, creator_id
	`, v.Title, v.YouTubeID, v.IsActive, v.PlaylistID, v.Creator.Ptr())
	return scanVideo(row)
}

func (r *VideoRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VideoRepo) UpdateTitle(ctx context.Context, id int64, title string) error {
	_, err := r.db.Exec(ctx, `UPDATE videos SET title = $2 WHERE id = $1`, id, title)
	return err
}

func (r *VideoRepo) queryVideos(ctx context.Context, sql string, args ...any) ([]Video, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		v, err := scanVideoRow(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func scanVideo(row pgx.Row) (Video, error) {
	v, err := scanVideoRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, ErrNotFound
		}
		return Video{}, err
	}
	return v, nil
}

func scanVideoRow(row pgx.Row) (Video, error) {
	var v Video
	var creatorID *int64
	if err := row.Scan(&v.ID, &v.Title, &v.YouTubeID, &v.IsActive, &v.CreatedAt, &v.PlaylistID, &creatorID); err != nil {
		return Video{}, err
	}
	v.Creator = ownershipFrom(creatorID)
	return v, nil
}
