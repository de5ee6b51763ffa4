package service

import (
	"context"
	"strings"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
)

type StudentInput struct {
	Name   string
	Age    int
	Branch string
}

type VolunteerInput struct {
	Name         string
	Contact      string
	Availability string
}

type DonorInput struct {
	Name    string
	Contact string
	Email   string
	Amount  int64
}

// RecordService coordinates student, volunteer and donor records. The actor
// passed to each write is stored verbatim in the record's tracking fields.
type RecordService interface {
	CreateStudent(ctx context.Context, in StudentInput, actor string) (*domain.Student, error)
	UpdateStudent(ctx context.Context, id string, in StudentInput, actor string) (*domain.Student, error)
	GetStudent(ctx context.Context, id string) (*domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	DeleteStudent(ctx context.Context, id string) error

	CreateVolunteer(ctx context.Context, in VolunteerInput, actor string) (*domain.Volunteer, error)
	UpdateVolunteer(ctx context.Context, id string, in VolunteerInput, actor string) (*domain.Volunteer, error)
	GetVolunteer(ctx context.Context, id string) (*domain.Volunteer, error)
	ListVolunteers(ctx context.Context) ([]domain.Volunteer, error)
	DeleteVolunteer(ctx context.Context, id string) error

	CreateDonor(ctx context.Context, in DonorInput, actor string) (*domain.Donor, error)
	UpdateDonor(ctx context.Context, id string, in DonorInput, actor string) (*domain.Donor, error)
	GetDonor(ctx context.Context, id string) (*domain.Donor, error)
	ListDonors(ctx context.Context) ([]domain.Donor, error)
	DeleteDonor(ctx context.Context, id string) error
}

type recordService struct {
	students   repository.StudentRepository
	volunteers repository.VolunteerRepository
	donors     repository.DonorRepository
}

func NewRecordService(students repository.StudentRepository, volunteers repository.VolunteerRepository, donors repository.DonorRepository) RecordService {
	return &recordService{
		students:   students,
		volunteers: volunteers,
		donors:     donors,
	}
}

func (in *StudentInput) normalise() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Branch = strings.TrimSpace(in.Branch)
	if err := required("name", in.Name); err != nil {
		return err
	}
	if in.Age < 0 {
		return &ValidationError{Field: "age", Reason: "must not be negative"}
	}
	return required("branch", in.Branch)
}

func (in *VolunteerInput) normalise() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Availability = strings.TrimSpace(in.Availability)
	if err := required("name", in.Name); err != nil {
		return err
	}
	if err := required("contact", in.Contact); err != nil {
		return err
	}
	return required("availability", in.Availability)
}

func (in *DonorInput) normalise() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := required("name", in.Name); err != nil {
		return err
	}
	if err := required("contact", in.Contact); err != nil {
		return err
	}
	if in.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

func (s *recordService) CreateStudent(ctx context.Context, in StudentInput, actor string) (*domain.Student, error) {
	if err := in.normalise(); err != nil {
		return nil, err
	}
	student := &domain.Student{Name: in.Name, Age: in.Age, Branch: in.Branch}
	student.CreatedBy = actor
	student.UpdatedBy = actor
	if err := s.students.Save(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *recordService) UpdateStudent(ctx context.Context, id string, in StudentInput, actor string) (*domain.Student, error) {
	if err := in.normalise(); err != nil {
		return nil, err
	}
	student, err := s.students.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Name, student.Age, student.Branch = in.Name, in.Age, in.Branch
	student.UpdatedBy = actor
	if err := s.students.Save(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *recordService) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	return s.students.Get(ctx, id)
}

func (s *recordService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return s.students.List(ctx)
}

func (s *recordService) DeleteStudent(ctx context.Context, id string) error {
	return s.students.Delete(ctx, id)
}

func (s *recordService) CreateVolunteer(ctx context.Context, in VolunteerInput, actor string) (*domain.Volunteer, error) {
	if err := in.normalise(); err != nil {
		return nil, err
	}
	volunteer := &domain.Volunteer{Name: in.Name, Contact: in.Contact, Availability: in.Availability}
	volunteer.CreatedBy = actor
	volunteer.UpdatedBy = actor
	if err := s.volunteers.Save(ctx, volunteer); err != nil {
		return nil, err
	}
	return volunteer, nil
}

func (s *recordService) UpdateVolunteer(ctx context.Context, id string, in VolunteerInput, actor string) (*domain.Volunteer, error) {
	if err := in.normalise(); err != nil {
		return nil, err
	}
	volunteer, err := s.volunteers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	volunteer.Name, volunteer.Contact, volunteer.Availability = in.Name, in.Contact, in.Availability
	volunteer.UpdatedBy = actor
	if err := s.volunteers.Save(ctx, volunteer); err != nil {
		return nil, err
	}
	return volunteer, nil
}

func (s *recordService) GetVolunteer(ctx context.Context, id string) (*domain.Volunteer, error) {
	return s.volunteers.Get(ctx, id)
}

func (s *recordService) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	return s.volunteers.List(ctx)
}

func (s *recordService) DeleteVolunteer(ctx context.Context, id string) error {
	return s.volunteers.Delete(ctx, id)
}

func (s *recordService) CreateDonor(ctx context.Context, in DonorInput, actor string) (*domain.Donor, error) {
	if err := in.normalise(); err != nil {
		return nil, err
	}
	donor := &domain.Donor{Name: in.Name, Contact: in.Contact, Email: in.Email, Amount: in.Amount}
	donor.CreatedBy = actor
	donor.UpdatedBy = actor
	if err := s.donors.Save(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

func (s *recordService) UpdateDonor(ctx context.Context, id string, in DonorInput, actor string) (*domain.Donor, error) {
	if err := in.normalise(); err != nil {
		return nil, err
	}
	donor, err := s.donors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	donor.Name, donor.Contact, donor.Email, donor.Amount = in.Name, in.Contact, in.Email, in.Amount
	donor.UpdatedBy = actor
	if err := s.donors.Save(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

func (s *recordService) GetDonor(ctx context.Context, id string) (*domain.Donor, error) {
	return s.donors.Get(ctx, id)
}

func (s *recordService) ListDonors(ctx context.Context) ([]domain.Donor, error) {
	return s.donors.List(ctx)
}

func (s *recordService) DeleteDonor(ctx context.Context, id string) error {
	return s.donors.Delete(ctx, id)
}
