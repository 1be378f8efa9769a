package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-registry/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1))
	`, u.Username).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return users.ErrUsernameTaken
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, password_hash,
			email, first_name, last_name,
			role, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Role,
		u.Active,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return users.User{}, users.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, username, password_hash,
			email, first_name, last_name,
			role, active,
			created_at, updated_at
		FROM users
		WHERE lower(username) = lower($1)
	`, username)

	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}

	return u, nil
}
