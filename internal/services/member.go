package services

import (
	"context"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
)

// MemberInput carries the mutable member fields. Index is only honored on
// create and on id-changing updates.
type MemberInput struct {
	PID      *string
	Location *string
	Checksum *string
	Datatype *string
	Index    *int
}

type MemberService struct {
	store        store.Store
	resolverBase string
	limit        int
}

func NewMemberService(st store.Store, resolverBase string, limit int) *MemberService {
	return &MemberService{store: st, resolverBase: resolverBase, limit: limit}
}

// Create adds a member to a collection. Members of rule-based collections
// are computed, so direct insertion is rejected. At least one of PID and
// Location must be set, and the datatype must satisfy the collection's
// restriction. Without an explicit index the member gets the next free id.
func (s *MemberService) Create(ctx context.Context, collID uuid.UUID, in MemberInput) (*models.Member, error) {
	coll, err := s.store.GetCollection(ctx, collID)
	if err != nil {
		return nil, err
	}
	if coll.RuleBased() {
		return nil, ErrBadRequest
	}
	if in.PID == nil && in.Location == nil {
		return nil, ErrBadRequest
	}
	if !datatypeAllowed(coll, in.Datatype) {
		return nil, store.ErrConflict
	}

	m := &models.Member{
		CollectionID: collID,
		PID:          in.PID,
		Location:     in.Location,
		Checksum:     in.Checksum,
		Datatype:     in.Datatype,
	}
	if in.Index != nil {
		m.ID = *in.Index
		return s.store.InsertMember(ctx, m, false)
	}
	return s.store.InsertMember(ctx, m, true)
}

func (s *MemberService) Get(ctx context.Context, collID uuid.UUID, id int) (*models.Member, error) {
	return s.store.GetMember(ctx, collID, id)
}

// List returns a cursor over the members of a collection. For a rule-based
// collection the membership is expanded from the rule: every member of
// every collection whose name matches the glob pattern.
func (s *MemberService) List(ctx context.Context, collID uuid.UUID) (store.MemberCursor, error) {
	coll, err := s.store.GetCollection(ctx, collID)
	if err != nil {
		return nil, err
	}
	f := store.MemberFilter{Limit: s.limit}
	if coll.RuleBased() {
		f.NameRule = coll.Rule
	} else {
		f.CollectionID = &collID
	}
	return s.store.ListMembers(ctx, f)
}

// Update overlays the provided fields on the stored member. An explicit
// index moves the member to a new id; the store rejects the move when the
// target id is taken.
func (s *MemberService) Update(ctx context.Context, collID uuid.UUID, id int, in MemberInput) (*models.Member, error) {
	coll, err := s.store.GetCollection(ctx, collID)
	if err != nil {
		return nil, err
	}
	current, err := s.store.GetMember(ctx, collID, id)
	if err != nil {
		return nil, err
	}

	if in.PID != nil {
		current.PID = in.PID
	}
	if in.Location != nil {
		current.Location = in.Location
	}
	if in.Checksum != nil {
		current.Checksum = in.Checksum
	}
	if in.Datatype != nil {
		current.Datatype = in.Datatype
	}
	if in.Index != nil {
		current.ID = *in.Index
	}

	if current.PID == nil && current.Location == nil {
		return nil, ErrBadRequest
	}
	if !datatypeAllowed(coll, current.Datatype) {
		return nil, store.ErrConflict
	}
	return s.store.UpdateMember(ctx, collID, id, current)
}

func (s *MemberService) Delete(ctx context.Context, collID uuid.UUID, id int) error {
	return s.store.DeleteMember(ctx, collID, id)
}

// DownloadTarget resolves the URL a member download should redirect to: the
// PID through the resolver when present, otherwise the direct location.
func (s *MemberService) DownloadTarget(ctx context.Context, collID uuid.UUID, id int) (string, error) {
	m, err := s.store.GetMember(ctx, collID, id)
	if err != nil {
		return "", err
	}
	return s.targetOf(m)
}

// DownloadTargets resolves the download URLs of every member of a
// collection, in member order.
func (s *MemberService) DownloadTargets(ctx context.Context, collID uuid.UUID) ([]string, error) {
	cur, err := s.List(ctx, collID)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var targets []string
	for {
		m, ok, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return targets, nil
		}
		target, err := s.targetOf(m)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
}

func (s *MemberService) targetOf(m *models.Member) (string, error) {
	switch {
	case m.PID != nil:
		return s.resolverBase + "/" + *m.PID, nil
	case m.Location != nil:
		return *m.Location, nil
	}
	return "", store.ErrNotFound
}

// A restriction on the collection requires every member to declare the
// restricted datatype; an absent datatype counts as a mismatch.
func datatypeAllowed(coll *models.Collection, datatype *string) bool {
	if coll.RestrictedDatatype == nil {
		return true
	}
	return datatype != nil && *datatype == *coll.RestrictedDatatype
}
