package contract

import (
	"context"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/specification"
)

// ActivityRepository is append-only; there is deliberately no update or
// delete.
type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error)
}
