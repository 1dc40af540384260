package testutil

import (
	"context"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCollectionService mocks the CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Create(ctx context.Context, in services.CollectionInput) (*models.Collection, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) List(ctx context.Context, owner *string) (store.CollectionCursor, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.CollectionCursor), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, id uuid.UUID, in services.CollectionInput) (*models.Collection, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMemberService mocks the MemberService
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) Create(ctx context.Context, collID uuid.UUID, in services.MemberInput) (*models.Member, error) {
	args := m.Called(ctx, collID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Get(ctx context.Context, collID uuid.UUID, id int) (*models.Member, error) {
	args := m.Called(ctx, collID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) List(ctx context.Context, collID uuid.UUID) (store.MemberCursor, error) {
	args := m.Called(ctx, collID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.MemberCursor), args.Error(1)
}

func (m *MockMemberService) Update(ctx context.Context, collID uuid.UUID, id int, in services.MemberInput) (*models.Member, error) {
	args := m.Called(ctx, collID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Delete(ctx context.Context, collID uuid.UUID, id int) error {
	args := m.Called(ctx, collID, id)
	return args.Error(0)
}

func (m *MockMemberService) DownloadTarget(ctx context.Context, collID uuid.UUID, id int) (string, error) {
	args := m.Called(ctx, collID, id)
	return args.String(0), args.Error(1)
}

func (m *MockMemberService) DownloadTargets(ctx context.Context, collID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, collID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCapabilityService mocks the CapabilityService
type MockCapabilityService struct {
	mock.Mock
}

func (m *MockCapabilityService) CapabilitiesOf(ctx context.Context, collID uuid.UUID) (*models.Capabilities, error) {
	args := m.Called(ctx, collID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Capabilities), args.Error(1)
}

// CollectionSliceCursor is a store.CollectionCursor backed by a slice.
type CollectionSliceCursor struct {
	Items []models.Collection
	pos   int
}

func (c *CollectionSliceCursor) Next(context.Context) (*models.Collection, bool, error) {
	if c.pos >= len(c.Items) {
		return nil, false, nil
	}
	item := c.Items[c.pos]
	c.pos++
	return &item, true, nil
}

func (c *CollectionSliceCursor) Close(context.Context) error { return nil }

// MemberSliceCursor is a store.MemberCursor backed by a slice.
type MemberSliceCursor struct {
	Items []models.Member
	pos   int
}

func (c *MemberSliceCursor) Next(context.Context) (*models.Member, bool, error) {
	if c.pos >= len(c.Items) {
		return nil, false, nil
	}
	item := c.Items[c.pos]
	c.pos++
	return &item, true, nil
}

func (c *MemberSliceCursor) Close(context.Context) error { return nil }
