package services

import (
	"context"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
)

// CollectionInput carries the mutable collection fields. Nil pointers mean
// "leave unchanged" on update and "unset" on create.
type CollectionInput struct {
	PID                *string
	Name               *string
	Owner              *string
	RestrictedDatatype *string
	Rule               *string
}

type CollectionService struct {
	store store.Store
	limit int
}

func NewCollectionService(st store.Store, limit int) *CollectionService {
	return &CollectionService{store: st, limit: limit}
}

// Create registers a new collection. The owner is mandatory; a missing PID
// is filled in with a generated one so every collection stays resolvable.
func (s *CollectionService) Create(ctx context.Context, in CollectionInput) (*models.Collection, error) {
	if in.Owner == nil || *in.Owner == "" {
		return nil, ErrBadRequest
	}
	if in.Rule != nil {
		if err := ValidateRule(*in.Rule); err != nil {
			return nil, err
		}
	}

	pid := in.PID
	if pid == nil {
		generated := uuid.NewString()
		pid = &generated
	}

	if err := s.store.EnsureOwner(ctx, *in.Owner); err != nil {
		return nil, err
	}
	return s.store.InsertCollection(ctx, &models.Collection{
		PID:                pid,
		Name:               in.Name,
		Owner:              *in.Owner,
		RestrictedDatatype: in.RestrictedDatatype,
		Rule:               in.Rule,
	})
}

func (s *CollectionService) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// List returns a cursor over collections, optionally filtered by owner.
func (s *CollectionService) List(ctx context.Context, owner *string) (store.CollectionCursor, error) {
	return s.store.ListCollections(ctx, store.CollectionFilter{Owner: owner, Limit: s.limit})
}

// Update overlays the provided fields on the stored collection. The
// creation timestamp is refreshed by the store on every update.
func (s *CollectionService) Update(ctx context.Context, id uuid.UUID, in CollectionInput) (*models.Collection, error) {
	current, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PID != nil {
		current.PID = in.PID
	}
	if in.Name != nil {
		current.Name = in.Name
	}
	if in.Owner != nil {
		if *in.Owner == "" {
			return nil, ErrBadRequest
		}
		if err := s.store.EnsureOwner(ctx, *in.Owner); err != nil {
			return nil, err
		}
		current.Owner = *in.Owner
	}
	if in.RestrictedDatatype != nil {
		current.RestrictedDatatype = in.RestrictedDatatype
	}
	if in.Rule != nil {
		if err := ValidateRule(*in.Rule); err != nil {
			return nil, err
		}
		current.Rule = in.Rule
	}

	return s.store.UpdateCollection(ctx, current)
}

func (s *CollectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteCollection(ctx, id)
}
