package domain

import "time"

// Clock returns the current instant. Stores take one so tests can control time.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Base carries the identity, lifecycle timestamps and actor fields shared by
// every persisted record. Concrete records embed it.
type Base struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

// Timestamped is implemented by any record embedding Base.
type Timestamped interface {
	HasIdentity() bool
	Meta() *Base
}

// HasIdentity reports whether the store has assigned the record an ID.
func (b *Base) HasIdentity() bool {
	return b.ID != ""
}

// Meta exposes the embedded Base for stores and helpers.
func (b *Base) Meta() *Base {
	return b
}

// OnPersist stamps rec right before it is written. CreatedAt is only set for
// records without an identity; UpdatedAt is refreshed on every call.
func OnPersist(rec Timestamped, now time.Time) {
	now = now.UTC()
	meta := rec.Meta()
	if !rec.HasIdentity() {
		meta.CreatedAt = now
	}
	meta.UpdatedAt = now
}

// TimestampFields renders the set lifecycle and actor fields of rec. Unset
// fields are left out.
func TimestampFields(rec Timestamped) map[string]any {
	return rec.Meta().TimestampFields()
}

// TimestampFields renders the set lifecycle and actor fields of b.
func (b *Base) TimestampFields() map[string]any {
	fields := make(map[string]any, 4)
	if !b.CreatedAt.IsZero() {
		fields["created_at"] = FormatTime(b.CreatedAt)
	}
	if !b.UpdatedAt.IsZero() {
		fields["updated_at"] = FormatTime(b.UpdatedAt)
	}
	if b.CreatedBy != "" {
		fields["created_by"] = b.CreatedBy
	}
	if b.UpdatedBy != "" {
		fields["updated_by"] = b.UpdatedBy
	}
	return fields
}

// FormatTime renders t as an RFC 3339 timestamp in UTC, keeping sub-second
// precision so the value parses back to the same instant.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func merge(domainFields map[string]any, rec Timestamped) map[string]any {
	for k, v := range TimestampFields(rec) {
		domainFields[k] = v
	}
	return domainFields
}
