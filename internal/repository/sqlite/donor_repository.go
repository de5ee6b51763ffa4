package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
)

const createDonorsTable = `
CREATE TABLE IF NOT EXISTS donors (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	contact TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	amount INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL DEFAULT ''
);
`

const selectDonor = `
SELECT id, name, contact, email, amount, created_at, updated_at, created_by, updated_by
FROM donors`

type DonorRepository struct {
	db   *sql.DB
	opts options
}

func NewDonorRepository(db *sql.DB, opts ...Option) repository.DonorRepository {
	return &DonorRepository{db: db, opts: newOptions(opts)}
}

func (r *DonorRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createDonorsTable); err != nil {
		return fmt.Errorf("create donors table: %w", err)
	}
	return nil
}

func (r *DonorRepository) Save(ctx context.Context, donor *domain.Donor) error {
	return persist(donor, r.opts.clock,
		func(id string) error {
			_, err := r.db.ExecContext(ctx, `
INSERT INTO donors (id, name, contact, email, amount, created_at, updated_at, created_by, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id,
				donor.Name,
				donor.Contact,
				donor.Email,
				donor.Amount,
				donor.CreatedAt,
				donor.UpdatedAt,
				donor.CreatedBy,
				donor.UpdatedBy,
			)
			if err != nil {
				return classifyWriteError("insert donor", err)
			}
			return nil
		},
		func() error {
			res, err := r.db.ExecContext(ctx, `
UPDATE donors
SET name = ?, contact = ?, email = ?, amount = ?, updated_at = ?, created_by = ?, updated_by = ?
WHERE id = ?`,
				donor.Name,
				donor.Contact,
				donor.Email,
				donor.Amount,
				donor.UpdatedAt,
				donor.CreatedBy,
				donor.UpdatedBy,
				donor.ID,
			)
			if err != nil {
				return classifyWriteError("update donor", err)
			}
			return checkAffected("update donor", res)
		},
	)
}

func (r *DonorRepository) Get(ctx context.Context, id string) (*domain.Donor, error) {
	return scanDonor(r.db.QueryRowContext(ctx, selectDonor+` WHERE id = ?`, id))
}

func (r *DonorRepository) List(ctx context.Context) ([]domain.Donor, error) {
	rows, err := r.db.QueryContext(ctx, selectDonor+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query donors: %w", err)
	}
	defer rows.Close()

	var donors []domain.Donor
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		donors = append(donors, *donor)
	}
	return donors, rows.Err()
}

func (r *DonorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM donors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}
	return checkAffected("delete donor", res)
}

func scanDonor(row scanner) (*domain.Donor, error) {
	var donor domain.Donor
	if err := row.Scan(
		&donor.ID,
		&donor.Name,
		&donor.Contact,
		&donor.Email,
		&donor.Amount,
		&donor.CreatedAt,
		&donor.UpdatedAt,
		&donor.CreatedBy,
		&donor.UpdatedBy,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan donor: %w", err)
	}
	normalise(&donor.Base)
	return &donor, nil
}
