package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"privatetube/internal/identity"
)

type UserRepo struct {
	db DB
}

func NewUserRepo(db DB) *UserRepo {
	return &UserRepo{db: db}
}

// Credential is the login lookup result; the hash never leaves the auth path.
type Credential struct {
	User
	PasswordHash string
}

// FindActiveByUsername serves login. Deactivated accounts cannot sign in.
func (r *UserRepo) FindActiveByUsername(ctx context.Context, username string) (Credential, error) {
	var c Credential
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, role, is_active, created_at
		FROM users
		WHERE username = $1 AND is_active
	`, username).Scan(&c.ID, &c.Username, &c.PasswordHash, &role, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, err
	}
	c.Role = identity.Role(role)
	return c, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (User, error) {
	var u User
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT id, username, role, is_active, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.Role = identity.Role(role)
	return u, nil
}

// UserSummary is the admin user listing row.
type UserSummary struct {
	User
	GrantCount int `json:"grantCount"`
}

func (r *UserRepo) ListWithGrantCount(ctx context.Context) ([]UserSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.username, u.role, u.is_active, u.created_at,
		       COUNT(pg.playlist_id)
		FROM users u
		LEFT JOIN playlist_grants pg ON pg.user_id = u.id
		GROUP BY u.id
		ORDER BY u.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []UserSummary{}
	for rows.Next() {
		var s UserSummary
		var role string
		if err := rows.Scan(&s.ID, &s.Username, &role, &s.IsActive, &s.CreatedAt, &s.GrantCount); err != nil {
			return nil, err
		}
		s.Role = identity.Role(role)
		users = append(users, s)
	}
	return users, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string, role identity.Role) (User, error) {
	var u User
	var roleOut string
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, username, role, is_active, created_at
	`, username, passwordHash, string(role)).Scan(&u.ID, &u.Username, &roleOut, &u.IsActive, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrDuplicateUsername
		}
		return User{}, err
	}
	u.Role = identity.Role(roleOut)
	return u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
