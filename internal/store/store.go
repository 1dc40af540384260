// Package store defines the storage capability the services call through.
// Drivers exist for PostgreSQL (the default), MongoDB, and an in-memory
// implementation used by tests.
package store

import (
	"context"
	"errors"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
)

// CollectionFilter narrows ListCollections. A nil field means no filter.
type CollectionFilter struct {
	Owner *string
	Limit int
}

// MemberFilter narrows ListMembers. Exactly one of CollectionID and
// NameRule is expected: CollectionID selects direct membership, NameRule
// selects members of every collection whose name matches the shell-glob
// pattern (rule-based virtual membership).
type MemberFilter struct {
	CollectionID *uuid.UUID
	NameRule     *string
	Limit        int
}

// CollectionCursor iterates lazily over a collection result set. Callers
// must Close it on every path; a cursor is restartable only by issuing the
// list call again.
type CollectionCursor interface {
	Next(ctx context.Context) (*models.Collection, bool, error)
	Close(ctx context.Context) error
}

// MemberCursor iterates lazily over a member result set.
type MemberCursor interface {
	Next(ctx context.Context) (*models.Member, bool, error)
	Close(ctx context.Context) error
}

// Store is the durable storage contract. Multi-statement sequences that
// must appear atomic (owner upsert, pid uniqueness, member id assignment)
// are the driver's responsibility: drivers use single atomic statements or
// unique constraints, never check-then-insert.
type Store interface {
	// EnsureOwner inserts the owner if absent. Idempotent: it neither
	// errors when the owner exists nor duplicates it under concurrency.
	EnsureOwner(ctx context.Context, mail string) error

	// InsertCollection assigns c.ID and c.CreatedAt and stores the row.
	// Returns ErrConflict if c.PID is already taken.
	InsertCollection(ctx context.Context, c *models.Collection) (*models.Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	ListCollections(ctx context.Context, f CollectionFilter) (CollectionCursor, error)
	// UpdateCollection replaces the stored row with c and refreshes its
	// creation timestamp. Returns ErrNotFound if the id does not exist and
	// ErrConflict on a pid collision.
	UpdateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id uuid.UUID) error

	// InsertMember stores m. When assignID is true the driver computes the
	// id atomically as max(id)+1 within the collection, starting at 1;
	// otherwise m.ID is used and ErrConflict reported if taken.
	InsertMember(ctx context.Context, m *models.Member, assignID bool) (*models.Member, error)
	GetMember(ctx context.Context, collID uuid.UUID, id int) (*models.Member, error)
	ListMembers(ctx context.Context, f MemberFilter) (MemberCursor, error)
	// UpdateMember replaces the member addressed by (collID, id) with m,
	// which may carry a new m.ID. Returns ErrConflict if the new id is
	// taken, ErrNotFound if the addressed member does not exist.
	UpdateMember(ctx context.Context, collID uuid.UUID, id int, m *models.Member) (*models.Member, error)
	DeleteMember(ctx context.Context, collID uuid.UUID, id int) error
}
