package repository

import (
	"context"

	"outreach-records/internal/domain"
)

// StudentRepository exposes persistence operations for students.
type StudentRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, student *domain.Student) error
	Get(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Delete(ctx context.Context, id string) error
}

// VolunteerRepository exposes persistence operations for volunteers.
type VolunteerRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, volunteer *domain.Volunteer) error
	Get(ctx context.Context, id string) (*domain.Volunteer, error)
	List(ctx context.Context) ([]domain.Volunteer, error)
	Delete(ctx context.Context, id string) error
}

// DonorRepository exposes persistence operations for donors.
type DonorRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, donor *domain.Donor) error
	Get(ctx context.Context, id string) (*domain.Donor, error)
	List(ctx context.Context) ([]domain.Donor, error)
	Delete(ctx context.Context, id string) error
}
