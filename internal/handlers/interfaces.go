package handlers

import (
	"context"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
)

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	Create(ctx context.Context, in services.CollectionInput) (*models.Collection, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	List(ctx context.Context, owner *string) (store.CollectionCursor, error)
	Update(ctx context.Context, id uuid.UUID, in services.CollectionInput) (*models.Collection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberServiceInterface defines the methods used by handlers from MemberService
type MemberServiceInterface interface {
	Create(ctx context.Context, collID uuid.UUID, in services.MemberInput) (*models.Member, error)
	Get(ctx context.Context, collID uuid.UUID, id int) (*models.Member, error)
	List(ctx context.Context, collID uuid.UUID) (store.MemberCursor, error)
	Update(ctx context.Context, collID uuid.UUID, id int, in services.MemberInput) (*models.Member, error)
	Delete(ctx context.Context, collID uuid.UUID, id int) error
	DownloadTarget(ctx context.Context, collID uuid.UUID, id int) (string, error)
	DownloadTargets(ctx context.Context, collID uuid.UUID) ([]string, error)
}

// CapabilityServiceInterface defines the methods used by handlers from CapabilityService
type CapabilityServiceInterface interface {
	CapabilitiesOf(ctx context.Context, collID uuid.UUID) (*models.Capabilities, error)
}
