package service

import (
	"context"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IActivityService interface {
	ListForTenant(ctx context.Context, tenantId uuid.UUID, limit, offset int) ([]*entity.Activity, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory) IActivityService {
	return &activityService{uowFactory: uowFactory}
}

func (s *activityService) ListForTenant(ctx context.Context, tenantId uuid.UUID, limit, offset int) ([]*entity.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ActivityRepository().FindAll(ctx,
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
}
