package contract

import (
	"context"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/specification"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error // soft delete
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error)

	// NextSequence allocates the next invoice sequence number. Callers must
	// hold an open transaction; the unique index backstops races.
	NextSequence(ctx context.Context) (int64, error)
}
