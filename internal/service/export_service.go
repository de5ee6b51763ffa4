package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"outreach-records/internal/domain"
	"outreach-records/internal/repository"
	"outreach-records/internal/storage"
)

// ErrExportDisabled is returned when no bucket is configured.
var ErrExportDisabled = errors.New("export storage not configured")

const exportStampLayout = "20060102T150405Z"

// ExportResult describes one snapshot run.
type ExportResult struct {
	Stamp    string         `json:"stamp"`
	Location string         `json:"location"`
	Counts   map[string]int `json:"counts"`
}

// ExportService writes JSON snapshots of every collection to object storage.
type ExportService interface {
	Export(ctx context.Context, actor string) (*ExportResult, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, stamp string) error
}

// ExportOptions selects where snapshots are written.
type ExportOptions struct {
	Bucket    string
	KeyPrefix string
	Clock     domain.Clock
	Logger    logrus.FieldLogger
}

type exportService struct {
	store      storage.Service
	users      repository.UserRepository
	students   repository.StudentRepository
	volunteers repository.VolunteerRepository
	donors     repository.DonorRepository
	opts       ExportOptions
}

type snapshot struct {
	Collection string           `json:"collection"`
	ExportedAt string           `json:"exported_at"`
	ExportedBy string           `json:"exported_by,omitempty"`
	Records    []map[string]any `json:"records"`
}

func NewExportService(
	store storage.Service,
	users repository.UserRepository,
	students repository.StudentRepository,
	volunteers repository.VolunteerRepository,
	donors repository.DonorRepository,
	opts ExportOptions,
) ExportService {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	opts.KeyPrefix = strings.Trim(opts.KeyPrefix, "/")
	return &exportService{
		store:      store,
		users:      users,
		students:   students,
		volunteers: volunteers,
		donors:     donors,
		opts:       opts,
	}
}

func (s *exportService) enabled() bool {
	return s.store != nil && s.opts.Bucket != ""
}

func (s *exportService) Export(ctx context.Context, actor string) (*ExportResult, error) {
	if !s.enabled() {
		return nil, ErrExportDisabled
	}

	now := s.opts.Clock().UTC()
	stamp := now.Format(exportStampLayout)
	collections, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Stamp:    stamp,
		Location: fmt.Sprintf("s3://%s/%s", s.opts.Bucket, path.Join(s.opts.KeyPrefix, stamp)),
		Counts:   make(map[string]int, len(collections)),
	}
	for _, name := range collectionOrder {
		records := collections[name]
		body, err := json.Marshal(snapshot{
			Collection: name,
			ExportedAt: domain.FormatTime(now),
			ExportedBy: actor,
			Records:    records,
		})
		if err != nil {
			return nil, fmt.Errorf("encode %s snapshot: %w", name, err)
		}

		key := path.Join(s.opts.KeyPrefix, stamp, name+".json")
		if _, err := s.store.PutObject(ctx, s.opts.Bucket, key, body, "application/json"); err != nil {
			return nil, fmt.Errorf("store %s snapshot: %w", name, err)
		}
		result.Counts[name] = len(records)
		s.opts.Logger.WithFields(logrus.Fields{
			"collection": name,
			"records":    len(records),
			"key":        key,
		}).Info("snapshot written")
	}

	return result, nil
}

var collectionOrder = []string{"users", "students", "volunteers", "donors"}

func (s *exportService) collect(ctx context.Context) (map[string][]map[string]any, error) {
	out := make(map[string][]map[string]any, len(collectionOrder))

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out["users"] = make([]map[string]any, 0, len(users))
	for i := range users {
		out["users"] = append(out["users"], users[i].ToJSON())
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	out["students"] = make([]map[string]any, 0, len(students))
	for i := range students {
		out["students"] = append(out["students"], students[i].ToJSON())
	}

	volunteers, err := s.volunteers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	out["volunteers"] = make([]map[string]any, 0, len(volunteers))
	for i := range volunteers {
		out["volunteers"] = append(out["volunteers"], volunteers[i].ToJSON())
	}

	donors, err := s.donors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	out["donors"] = make([]map[string]any, 0, len(donors))
	for i := range donors {
		out["donors"] = append(out["donors"], donors[i].ToJSON())
	}

	return out, nil
}

func (s *exportService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	if !s.enabled() {
		return nil, ErrExportDisabled
	}
	prefix := s.opts.KeyPrefix
	if prefix != "" {
		prefix += "/"
	}
	return s.store.ListObjects(ctx, s.opts.Bucket, prefix)
}

func (s *exportService) Delete(ctx context.Context, stamp string) error {
	if !s.enabled() {
		return ErrExportDisabled
	}
	stamp = strings.TrimSpace(stamp)
	if _, err := time.Parse(exportStampLayout, stamp); err != nil {
		return &ValidationError{Field: "stamp", Reason: "is invalid"}
	}
	return s.store.DeletePrefix(ctx, s.opts.Bucket, path.Join(s.opts.KeyPrefix, stamp)+"/")
}
