// Package memstore is an in-memory store.Store used by tests. It mirrors
// the driver semantics closely enough to exercise the services: idempotent
// owner upsert, pid uniqueness, atomic member id assignment and rule-based
// member listing.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
)

type memberKey struct {
	coll uuid.UUID
	id   int
}

type Store struct {
	mu          sync.Mutex
	owners      map[string]bool
	collections map[uuid.UUID]models.Collection
	collOrder   []uuid.UUID
	members     map[memberKey]models.Member
}

func New() *Store {
	return &Store{
		owners:      make(map[string]bool),
		collections: make(map[uuid.UUID]models.Collection),
		members:     make(map[memberKey]models.Member),
	}
}

func (s *Store) EnsureOwner(_ context.Context, mail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[mail] = true
	return nil
}

func (s *Store) InsertCollection(_ context.Context, c *models.Collection) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.PID != nil {
		for _, existing := range s.collections {
			if existing.PID != nil && *existing.PID == *c.PID {
				return nil, store.ErrConflict
			}
		}
	}

	inserted := *c
	inserted.ID = uuid.New()
	inserted.CreatedAt = time.Now()
	s.collections[inserted.ID] = inserted
	s.collOrder = append(s.collOrder, inserted.ID)
	out := inserted
	return &out, nil
}

func (s *Store) GetCollection(_ context.Context, id uuid.UUID) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *Store) ListCollections(_ context.Context, f store.CollectionFilter) (store.CollectionCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Collection
	for _, id := range s.collOrder {
		c, ok := s.collections[id]
		if !ok {
			continue
		}
		if f.Owner != nil && c.Owner != *f.Owner {
			continue
		}
		result = append(result, c)
		if f.Limit > 0 && len(result) == f.Limit {
			break
		}
	}
	return &collectionCursor{items: result}, nil
}

func (s *Store) UpdateCollection(_ context.Context, c *models.Collection) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[c.ID]; !ok {
		return nil, store.ErrNotFound
	}
	if c.PID != nil {
		for id, existing := range s.collections {
			if id != c.ID && existing.PID != nil && *existing.PID == *c.PID {
				return nil, store.ErrConflict
			}
		}
	}

	updated := *c
	updated.CreatedAt = time.Now()
	s.collections[c.ID] = updated
	out := updated
	return &out, nil
}

func (s *Store) DeleteCollection(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return store.ErrNotFound
	}
	// Members are deliberately left behind: collection deletion does not
	// cascade.
	delete(s.collections, id)
	return nil
}

func (s *Store) InsertMember(_ context.Context, m *models.Member, assignID bool) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := *m
	if assignID {
		max := 0
		for key := range s.members {
			if key.coll == m.CollectionID && key.id > max {
				max = key.id
			}
		}
		inserted.ID = max + 1
	} else if _, ok := s.members[memberKey{m.CollectionID, m.ID}]; ok {
		return nil, store.ErrConflict
	}
	inserted.DateAdded = time.Now()
	s.members[memberKey{inserted.CollectionID, inserted.ID}] = inserted
	out := inserted
	return &out, nil
}

func (s *Store) GetMember(_ context.Context, collID uuid.UUID, id int) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberKey{collID, id}]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := m
	return &out, nil
}

func (s *Store) ListMembers(_ context.Context, f store.MemberFilter) (store.MemberCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := func(m models.Member) bool {
		switch {
		case f.NameRule != nil:
			c, ok := s.collections[m.CollectionID]
			if !ok || c.Name == nil {
				return false
			}
			return store.GlobMatch(*f.NameRule, *c.Name)
		case f.CollectionID != nil:
			return m.CollectionID == *f.CollectionID
		}
		return true
	}

	var result []models.Member
	for _, m := range s.members {
		if matches(m) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CollectionID != result[j].CollectionID {
			return result[i].CollectionID.String() < result[j].CollectionID.String()
		}
		return result[i].ID < result[j].ID
	})
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return &memberCursor{items: result}, nil
}

func (s *Store) UpdateMember(_ context.Context, collID uuid.UUID, id int, m *models.Member) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.members[memberKey{collID, id}]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.ID != id {
		if _, taken := s.members[memberKey{collID, m.ID}]; taken {
			return nil, store.ErrConflict
		}
	}

	updated := *m
	updated.CollectionID = collID
	updated.DateAdded = old.DateAdded
	delete(s.members, memberKey{collID, id})
	s.members[memberKey{collID, updated.ID}] = updated
	out := updated
	return &out, nil
}

func (s *Store) DeleteMember(_ context.Context, collID uuid.UUID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[memberKey{collID, id}]; !ok {
		return store.ErrNotFound
	}
	delete(s.members, memberKey{collID, id})
	return nil
}

type collectionCursor struct {
	items []models.Collection
	pos   int
}

func (c *collectionCursor) Next(context.Context) (*models.Collection, bool, error) {
	if c.pos >= len(c.items) {
		return nil, false, nil
	}
	item := c.items[c.pos]
	c.pos++
	return &item, true, nil
}

func (c *collectionCursor) Close(context.Context) error { return nil }

type memberCursor struct {
	items []models.Member
	pos   int
}

func (c *memberCursor) Next(context.Context) (*models.Member, bool, error) {
	if c.pos >= len(c.items) {
		return nil, false, nil
	}
	item := c.items[c.pos]
	c.pos++
	return &item, true, nil
}

func (c *memberCursor) Close(context.Context) error { return nil }
