package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// GrantSet is one user's accessible playlist ids, loaded once per request and
// handed to the policy functions.
type GrantSet map[int64]struct{}

func (g GrantSet) Has(playlistID int64) bool {
	_, ok := g[playlistID]
	return ok
}

func NewGrantSet(playlistIDs ...int64) GrantSet {
	g := make(GrantSet, len(playlistIDs))
	for _, id := range playlistIDs {
		g[id] = struct{}{}
	}
	return g
}

// GrantRepo is the durable (user, playlist) grant mapping.
type GrantRepo struct {
	db DB
}

func NewGrantRepo(db DB) *GrantRepo {
	return &GrantRepo{db: db}
}

func (r *GrantRepo) GrantsFor(ctx context.Context, userID int64) (GrantSet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT playlist_id
		FROM playlist_grants
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := GrantSet{}
	for rows.Next() {
		var playlistID int64
		if err := rows.Scan(&playlistID); err != nil {
			return nil, err
		}
		grants[playlistID] = struct{}{}
	}
	return grants, rows.Err()
}

func (r *GrantRepo) Grant(ctx context.Context, userID, playlistID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO playlist_grants (user_id, playlist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, playlist_id) DO NOTHING
	`, userID, playlistID)
	return err
}

// ReplaceAll swaps a user's entire grant set in one transaction, so readers
// never observe a mix of the old and new assignment.
func (r *GrantRepo) ReplaceAll(ctx context.Context, userID int64, playlistIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM playlist_grants WHERE user_id = $1
	`, userID); err != nil {
		return err
	}

	for _, playlistID := range playlistIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO playlist_grants (user_id, playlist_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, playlist_id) DO NOTHING
		`, userID, playlistID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
