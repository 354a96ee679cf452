package catalog

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Seed creates the default admin account and a sample playlist on an empty
// database. Safe to call on every startup.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	var userCount int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var adminID int64
	if err := pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, is_active)
		VALUES ('admin', $1, 'Admin', TRUE)
		RETURNING id
	`, string(hash)).Scan(&adminID); err != nil {
		return err
	}

	var playlistID int64
	if err := pool.QueryRow(ctx, `
		INSERT INTO playlists (name, description)
		VALUES ('Sample Playlist', 'Default curated videos')
		RETURNING id
	`).Scan(&playlistID); err != nil {
		return err
	}

	samples := []struct {
		title     string
		youtubeID string
	}{
		{"Big Buck Bunny", "aqz-KE-bpKQ"},
		{"Elephant's Dream", "TLkA0RELQ1g"},
		{"Sintel", "0wCC3aLXdOw"},
	}
	for _, v := range samples {
		if _, err := pool.Exec(ctx, `
			INSERT INTO videos (title, youtube_id, playlist_id, is_active)
			VALUES ($1, $2, $3, TRUE)
		`, v.title, v.youtubeID, playlistID); err != nil {
			return err
		}
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO playlist_grants (user_id, playlist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, playlist_id) DO NOTHING
	`, adminID, playlistID); err != nil {
		return err
	}

	log.Printf("catalog: seeded admin user and sample playlist %d", playlistID)
	return nil
}
