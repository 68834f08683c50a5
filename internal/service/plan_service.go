package service

import (
	"context"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/repository/memory"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPlanService interface {
	ListActive(ctx context.Context) ([]*dto.PlanResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.PlanResponse, error)
	Create(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.PlanCache
	log        logger.ILogger
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory, cache *memory.PlanCache, log logger.ILogger) IPlanService {
	return &planService{
		uowFactory: uowFactory,
		cache:      cache,
		log:        log,
	}
}

func (s *planService) ListActive(ctx context.Context) ([]*dto.PlanResponse, error) {
	if cached, ok := s.cache.GetActivePlans(); ok {
		return dto.ToPlanResponses(cached), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.PlanRepository().FindAll(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	s.cache.SetActivePlans(plans)
	return dto.ToPlanResponses(plans), nil
}

func (s *planService) GetBySlug(ctx context.Context, slug string) (*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.PlanRepository().FindOne(ctx, specification.BySlug{Slug: slug})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Plan not found")
	}
	return dto.ToPlanResponse(plan), nil
}

func (s *planService) Create(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.PlanRepository().FindOne(ctx, specification.BySlug{Slug: req.Slug})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewApiError(fiber.StatusConflict, "A plan with this slug already exists")
	}

	plan := &entity.Plan{
		Id:              uuid.New(),
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		Price:           req.Price,
		BillingPeriod:   entity.BillingPeriod(req.BillingPeriod),
		TrialPeriodDays: req.TrialPeriodDays,
		Features:        req.Features,
		IsActive:        true,
		SortOrder:       req.SortOrder,
	}

	if err := uow.PlanRepository().Create(ctx, plan); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("plan", "Plan created", map[string]interface{}{
		"plan_id": plan.Id,
		"slug":    plan.Slug,
	})
	return dto.ToPlanResponse(plan), nil
}

func (s *planService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Plan not found")
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.TrialPeriodDays != nil {
		plan.TrialPeriodDays = *req.TrialPeriodDays
	}
	if req.Features != nil {
		plan.Features = req.Features
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		plan.SortOrder = *req.SortOrder
	}

	if err := uow.PlanRepository().Update(ctx, plan); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return dto.ToPlanResponse(plan), nil
}

func (s *planService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if plan == nil {
		return serverutils.NewApiError(fiber.StatusNotFound, "Plan not found")
	}

	// Plans stay while anything references them, price history depends on it.
	refs, err := uow.PlanRepository().CountSubscriptionsReferencing(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return serverutils.NewApiError(fiber.StatusConflict, "Plan is referenced by subscriptions and cannot be deleted")
	}

	if err := uow.PlanRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate()
	s.log.Info("plan", "Plan deleted", map[string]interface{}{
		"plan_id": id,
	})
	return nil
}
