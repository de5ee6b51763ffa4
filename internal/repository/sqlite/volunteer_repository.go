package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
)

const createVolunteersTable = `
CREATE TABLE IF NOT EXISTS volunteers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	contact TEXT NOT NULL,
	availability TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL DEFAULT ''
);
`

const selectVolunteer = `
SELECT id, name, contact, availability, created_at, updated_at, created_by, updated_by
FROM volunteers`

type VolunteerRepository struct {
	db   *sql.DB
	opts options
}

func NewVolunteerRepository(db *sql.DB, opts ...Option) repository.VolunteerRepository {
	return &VolunteerRepository{db: db, opts: newOptions(opts)}
}

func (r *VolunteerRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVolunteersTable); err != nil {
		return fmt.Errorf("create volunteers table: %w", err)
	}
	return nil
}

func (r *VolunteerRepository) Save(ctx context.Context, volunteer *domain.Volunteer) error {
	return persist(volunteer, r.opts.clock,
		func(id string) error {
			_, err := r.db.ExecContext(ctx, `
INSERT INTO volunteers (id, name, contact, availability, created_at, updated_at, created_by, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id,
				volunteer.Name,
				volunteer.Contact,
				volunteer.Availability,
				volunteer.CreatedAt,
				volunteer.UpdatedAt,
				volunteer.CreatedBy,
				volunteer.UpdatedBy,
			)
			if err != nil {
				return classifyWriteError("insert volunteer", err)
			}
			return nil
		},
		func() error {
			res, err := r.db.ExecContext(ctx, `
UPDATE volunteers
SET name = ?, contact = ?, availability = ?, updated_at = ?, created_by = ?, updated_by = ?
WHERE id = ?`,
				volunteer.Name,
				volunteer.Contact,
				volunteer.Availability,
				volunteer.UpdatedAt,
				volunteer.CreatedBy,
				volunteer.UpdatedBy,
				volunteer.ID,
			)
			if err != nil {
				return classifyWriteError("update volunteer", err)
			}
			return checkAffected("update volunteer", res)
		},
	)
}

func (r *VolunteerRepository) Get(ctx context.Context, id string) (*domain.Volunteer, error) {
	return scanVolunteer(r.db.QueryRowContext(ctx, selectVolunteer+` WHERE id = ?`, id))
}

func (r *VolunteerRepository) List(ctx context.Context) ([]domain.Volunteer, error) {
	rows, err := r.db.QueryContext(ctx, selectVolunteer+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []domain.Volunteer
	for rows.Next() {
		volunteer, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, *volunteer)
	}
	return volunteers, rows.Err()
}

func (r *VolunteerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM volunteers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}
	return checkAffected("delete volunteer", res)
}

func scanVolunteer(row scanner) (*domain.Volunteer, error) {
	var volunteer domain.Volunteer
	if err := row.Scan(
		&volunteer.ID,
		&volunteer.Name,
		&volunteer.Contact,
		&volunteer.Availability,
		&volunteer.CreatedAt,
		&volunteer.UpdatedAt,
		&volunteer.CreatedBy,
		&volunteer.UpdatedBy,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan volunteer: %w", err)
	}
	normalise(&volunteer.Base)
	return &volunteer, nil
}
