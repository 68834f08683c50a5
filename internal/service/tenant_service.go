package service

import (
	"context"
	"fmt"
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITenantService interface {
	// Signup provisions a school account with a trial subscription on the
	// chosen plan, atomically.
	Signup(ctx context.Context, req *dto.SignupTenantRequest) (*dto.SignupTenantResponse, error)

	List(ctx context.Context, limit, offset int) ([]*dto.TenantResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TenantResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTenantRequest) (*dto.TenantResponse, error)
}

type tenantService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewTenantService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ITenantService {
	return &tenantService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *tenantService) Signup(ctx context.Context, req *dto.SignupTenantRequest) (*dto.SignupTenantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.TenantRepository().FindOne(ctx, specification.BySlug{Slug: req.Slug})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewApiError(fiber.StatusConflict, "A tenant with this slug already exists")
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.BySlug{Slug: req.PlanSlug})
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Plan not found")
	}

	now := time.Now()
	tenant := &entity.Tenant{
		Id:           uuid.New(),
		Name:         req.Name,
		Slug:         req.Slug,
		ContactEmail: req.ContactEmail,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.TenantRepository().Create(ctx, tenant); err != nil {
		return nil, err
	}

	sub := &entity.Subscription{
		Id:        uuid.New(),
		TenantId:  tenant.Id,
		PlanId:    plan.Id,
		Status:    entity.SubscriptionStatusActive,
		Price:     plan.Price,
		AutoRenew: true,
		StartsAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if plan.TrialPeriodDays > 0 {
		trialEnd := now.AddDate(0, 0, plan.TrialPeriodDays)
		sub.TrialEndsAt = &trialEnd
		sub.EndsAt = &trialEnd
		sub.NextPaymentAt = &trialEnd
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    tenant.Id,
		Category:    "tenant",
		Action:      "tenant.signed_up",
		Description: fmt.Sprintf("Tenant %s signed up on plan %s", tenant.Name, plan.Name),
		EntityType:  "tenant",
		EntityId:    tenant.Id,
		Metadata: map[string]interface{}{
			"plan_slug":         plan.Slug,
			"trial_period_days": plan.TrialPeriodDays,
		},
		CreatedAt: now,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("tenant", "Tenant signed up", map[string]interface{}{
		"tenant_id": tenant.Id,
		"slug":      tenant.Slug,
		"plan":      plan.Slug,
	})

	return &dto.SignupTenantResponse{
		Tenant:       dto.ToTenantResponse(tenant),
		Subscription: dto.ToSubscriptionResponse(sub, now),
	}, nil
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*dto.TenantResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tenants, err := uow.TenantRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	return dto.ToTenantResponses(tenants), nil
}

func (s *tenantService) Get(ctx context.Context, id uuid.UUID) (*dto.TenantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Tenant not found")
	}
	return dto.ToTenantResponse(tenant), nil
}

func (s *tenantService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Tenant not found")
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.ContactEmail != nil {
		tenant.ContactEmail = *req.ContactEmail
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}
	tenant.UpdatedAt = time.Now()

	if err := uow.TenantRepository().Update(ctx, tenant); err != nil {
		return nil, err
	}
	return dto.ToTenantResponse(tenant), nil
}
