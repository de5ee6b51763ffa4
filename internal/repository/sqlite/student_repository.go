package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
)

const createStudentsTable = `
CREATE TABLE IF NOT EXISTS students (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	branch TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL DEFAULT ''
);
`

const selectStudent = `
SELECT id, name, age, branch, created_at, updated_at, created_by, updated_by
FROM students`

type StudentRepository struct {
	db   *sql.DB
	opts options
}

func NewStudentRepository(db *sql.DB, opts ...Option) repository.StudentRepository {
	return &StudentRepository{db: db, opts: newOptions(opts)}
}

func (r *StudentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createStudentsTable); err != nil {
		return fmt.Errorf("create students table: %w", err)
	}
	return nil
}

func (r *StudentRepository) Save(ctx context.Context, student *domain.Student) error {
	return persist(student, r.opts.clock,
		func(id string) error {
			_, err := r.db.ExecContext(ctx, `
INSERT INTO students (id, name, age, branch, created_at, updated_at, created_by, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id,
				student.Name,
				student.Age,
				student.Branch,
				student.CreatedAt,
				student.UpdatedAt,
				student.CreatedBy,
				student.UpdatedBy,
			)
			if err != nil {
				return classifyWriteError("insert student", err)
			}
			return nil
		},
		func() error {
			res, err := r.db.ExecContext(ctx, `
UPDATE students
SET name = ?, age = ?, branch = ?, updated_at = ?, created_by = ?, updated_by = ?
WHERE id = ?`,
				student.Name,
				student.Age,
				student.Branch,
				student.UpdatedAt,
				student.CreatedBy,
				student.UpdatedBy,
				student.ID,
			)
			if err != nil {
				return classifyWriteError("update student", err)
			}
			return checkAffected("update student", res)
		},
	)
}

func (r *StudentRepository) Get(ctx context.Context, id string) (*domain.Student, error) {
	return scanStudent(r.db.QueryRowContext(ctx, selectStudent+` WHERE id = ?`, id))
}

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, selectStudent+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}
	return students, rows.Err()
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return checkAffected("delete student", res)
}

func scanStudent(row scanner) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Age,
		&student.Branch,
		&student.CreatedAt,
		&student.UpdatedAt,
		&student.CreatedBy,
		&student.UpdatedBy,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan student: %w", err)
	}
	normalise(&student.Base)
	return &student, nil
}
