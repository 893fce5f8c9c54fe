package document

import (
	"fmt"
	"time"
)

// Status is the editorial state of a document.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusReview    Status = "Review"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// InitialVersion is the version of a freshly constructed or cloned document.
const InitialVersion = 1

// Metadata tracks the revision history of a document. Each document owns its
// metadata exclusively; clones receive their own record.
type Metadata struct {
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
	Version      int       `json:"version"`
	Status       Status    `json:"status"`
}

// NewMetadata returns draft metadata stamped with now.
func NewMetadata(now time.Time) *Metadata {
	return &Metadata{
		CreatedAt:    now,
		LastModified: now,
		Version:      InitialVersion,
		Status:       StatusDraft,
	}
}

// Clone returns metadata for a copy of the document. The creation time and
// status carry over; the version restarts at InitialVersion because the
// copy starts its own history, and the modification time is set to now.
func (m *Metadata) Clone(now time.Time) *Metadata {
	if m == nil {
		return NewMetadata(now)
	}
	return &Metadata{
		CreatedAt:    m.CreatedAt,
		LastModified: now,
		Version:      InitialVersion,
		Status:       m.Status,
	}
}

func (m *Metadata) touch(now time.Time) {
	m.Version++
	m.LastModified = now
}

// Info renders a one-line description of the metadata.
func (m *Metadata) Info() string {
	return fmt.Sprintf("Metadata[version=%d, status='%s', created=%s]",
		m.Version, m.Status, m.CreatedAt.Format("2006-01-02T15:04:05"))
}
