package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS users (
          id            BIGSERIAL PRIMARY KEY,
          username      TEXT NOT NULL UNIQUE,
          password_hash TEXT NOT NULL,
          role          TEXT NOT NULL DEFAULT 'User',
          is_active     BOOLEAN NOT NULL DEFAULT TRUE,
          created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id          BIGSERIAL PRIMARY KEY,
          name        TEXT NOT NULL,
          description TEXT NOT NULL DEFAULT '',
          creator_id  BIGINT REFERENCES users(id) ON DELETE SET NULL
      )
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS videos (
          id          BIGSERIAL PRIMARY KEY,
          title       TEXT NOT NULL,
          youtube_id  TEXT NOT NULL,
          is_active   BOOLEAN NOT NULL DEFAULT TRUE,
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          playlist_id BIGINT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          creator_id  BIGINT REFERENCES users(id) ON DELETE SET NULL
      )
    `); err != nil {
		return err
	}

	// Grant rows disappear with either side of the pair; playlist deletion
	// must not leave orphan grants behind.
	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlist_grants (
          user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          playlist_id BIGINT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          PRIMARY KEY (user_id, playlist_id)
      )
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_videos_playlist_created
      ON videos(playlist_id, created_at DESC)
    `); err != nil {
		return err
	}

	_, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_playlist_grants_playlist
      ON playlist_grants(playlist_id)
    `)
	return err
}
