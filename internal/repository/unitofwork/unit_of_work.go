package unitofwork

import (
	"context"

	"school-mgmt-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TenantRepository() contract.TenantRepository
	PlanRepository() contract.PlanRepository
	SubscriptionRepository() contract.SubscriptionRepository
	InvoiceRepository() contract.InvoiceRepository
	ActivityRepository() contract.ActivityRepository
}
