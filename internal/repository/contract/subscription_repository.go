package contract

import (
	"context"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error // soft delete, audit trail stays
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// FindCurrentForTenant returns the tenant's most recent subscription by
	// creation time, or nil when the tenant never subscribed.
	FindCurrentForTenant(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error)
}
