package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
	"outreach-records/internal/storage"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

// memStore keeps copies of records keyed by ID and stamps them like a real store.
type memStore[T any] struct {
	clock   *testClock
	records map[string]T
	order   []string
	nextID  int
	failErr error
	unique  func(existing, candidate *T) bool
}

func newMemStore[T any](clock *testClock) *memStore[T] {
	return &memStore[T]{clock: clock, records: map[string]T{}}
}

func (m *memStore[T]) save(rec *T, meta domain.Timestamped) error {
	if m.failErr != nil {
		return m.failErr
	}
	if !meta.HasIdentity() && m.unique != nil {
		for _, id := range m.order {
			existing := m.records[id]
			if m.unique(&existing, rec) {
				return repository.ErrAlreadyExists
			}
		}
	}
	if meta.HasIdentity() {
		if _, ok := m.records[meta.Meta().ID]; !ok {
			return repository.ErrNotFound
		}
	}
	domain.OnPersist(meta, m.clock.Now())
	if !meta.HasIdentity() {
		m.nextID++
		meta.Meta().ID = fmt.Sprintf("id-%d", m.nextID)
		m.order = append(m.order, meta.Meta().ID)
	}
	m.records[meta.Meta().ID] = *rec
	return nil
}

func (m *memStore[T]) get(id string) (*T, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *memStore[T]) list() []T {
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		if rec, ok := m.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func (m *memStore[T]) delete(id string) error {
	if _, ok := m.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

type memUsers struct{ *memStore[domain.User] }

func newMemUsers(clock *testClock) *memUsers {
	m := &memUsers{newMemStore[domain.User](clock)}
	m.unique = func(a, b *domain.User) bool { return a.Email == b.Email }
	return m
}

func (m *memUsers) Init(context.Context) error { return nil }
func (m *memUsers) Save(_ context.Context, u *domain.User) error { return m.save(u, u) }
func (m *memUsers) Get(_ context.Context, id string) (*domain.User, error) { return m.get(id) }
func (m *memUsers) List(context.Context) ([]domain.User, error) { return m.list(), nil }
func (m *memUsers) Delete(_ context.Context, id string) error { return m.delete(id) }
func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.list() {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memStudents struct{ *memStore[domain.Student] }

func (m *memStudents) Init(context.Context) error { return nil }
func (m *memStudents) Save(_ context.Context, s *domain.Student) error { return m.save(s, s) }
func (m *memStudents) Get(_ context.Context, id string) (*domain.Student, error) { return m.get(id) }
func (m *memStudents) List(context.Context) ([]domain.Student, error) { return m.list(), nil }
func (m *memStudents) Delete(_ context.Context, id string) error { return m.delete(id) }

type memVolunteers struct{ *memStore[domain.Volunteer] }

func (m *memVolunteers) Init(context.Context) error { return nil }
func (m *memVolunteers) Save(_ context.Context, v *domain.Volunteer) error { return m.save(v, v) }
func (m *memVolunteers) Get(_ context.Context, id string) (*domain.Volunteer, error) { return m.get(id) }
func (m *memVolunteers) List(context.Context) ([]domain.Volunteer, error) { return m.list(), nil }
func (m *memVolunteers) Delete(_ context.Context, id string) error { return m.delete(id) }

type memDonors struct{ *memStore[domain.Donor] }

func (m *memDonors) Init(context.Context) error { return nil }
func (m *memDonors) Save(_ context.Context, d *domain.Donor) error { return m.save(d, d) }
func (m *memDonors) Get(_ context.Context, id string) (*domain.Donor, error) { return m.get(id) }
func (m *memDonors) List(context.Context) ([]domain.Donor, error) { return m.list(), nil }
func (m *memDonors) Delete(_ context.Context, id string) error { return m.delete(id) }

type memObjectStore struct {
	objects map[string][]byte
	failErr error
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string][]byte{}}
}

func (s *memObjectStore) PutObject(_ context.Context, bucket, key string, body []byte, _ string) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	s.objects[key] = append([]byte(nil), body...)
	return "s3://" + bucket + "/" + key, nil
}

func (s *memObjectStore) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	var keys []string
	for k := range s.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]storage.ObjectInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(s.objects[k]))})
	}
	return out, nil
}

func (s *memObjectStore) DeletePrefix(_ context.Context, _ string, prefix string) error {
	for k := range s.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(s.objects, k)
		}
	}
	return nil
}

var (
	_ repository.UserRepository      = (*memUsers)(nil)
	_ repository.StudentRepository   = (*memStudents)(nil)
	_ repository.VolunteerRepository = (*memVolunteers)(nil)
	_ repository.DonorRepository     = (*memDonors)(nil)
	_ storage.Service                = (*memObjectStore)(nil)
)
