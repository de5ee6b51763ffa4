package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	contact TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL DEFAULT ''
);
`

const selectUser = `
SELECT id, email, password_hash, name, contact, address, created_at, updated_at, created_by, updated_by
FROM users`

type UserRepository struct {
	db   *sql.DB
	opts options
}

func NewUserRepository(db *sql.DB, opts ...Option) repository.UserRepository {
	return &UserRepository{db: db, opts: newOptions(opts)}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return persist(user, r.opts.clock,
		func(id string) error {
			_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, name, contact, address, created_at, updated_at, created_by, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id,
				user.Email,
				user.PasswordHash,
				user.Name,
				user.Contact,
				user.Address,
				user.CreatedAt,
				user.UpdatedAt,
				user.CreatedBy,
				user.UpdatedBy,
			)
			if err != nil {
				return classifyWriteError("insert user", err)
			}
			return nil
		},
		func() error {
			res, err := r.db.ExecContext(ctx, `
UPDATE users
SET email = ?, password_hash = ?, name = ?, contact = ?, address = ?, updated_at = ?, created_by = ?, updated_by = ?
WHERE id = ?`,
				user.Email,
				user.PasswordHash,
				user.Name,
				user.Contact,
				user.Address,
				user.UpdatedAt,
				user.CreatedBy,
				user.UpdatedBy,
				user.ID,
			)
			if err != nil {
				return classifyWriteError("update user", err)
			}
			return checkAffected("update user", res)
		},
	)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email))
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id))
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return checkAffected("delete user", res)
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Contact,
		&user.Address,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.CreatedBy,
		&user.UpdatedBy,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	normalise(&user.Base)
	return &user, nil
}
