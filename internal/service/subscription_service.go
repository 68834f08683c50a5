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
	"school-mgmt-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DefaultRenewalDays is the extension applied when a renewal request names no
// duration.
const DefaultRenewalDays = 30

// EventPublisher is the outbound event bus contract.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ISubscriptionService interface {
	GetCurrent(ctx context.Context, tenantId uuid.UUID) (*dto.SubscriptionResponse, error)

	// Renew extends the subscription by durationDays from max(ends_at, now),
	// reactivates it, and reconciles its invoices, all in one transaction.
	Renew(ctx context.Context, subscriptionId uuid.UUID, durationDays int) (*entity.Subscription, error)

	// Cancel ends the subscription. Immediate cancellation cuts access now;
	// otherwise access runs until ends_at and auto renew is switched off.
	Cancel(ctx context.Context, tenantId uuid.UUID, req *dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error)

	// ChangePlan moves the tenant's current subscription to another plan,
	// re-snapshotting the price.
	ChangePlan(ctx context.Context, tenantId uuid.UUID, planSlug string) (*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	invoiceService IInvoiceService
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	invoiceService IInvoiceService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory:     uowFactory,
		invoiceService: invoiceService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *subscriptionService) GetCurrent(ctx context.Context, tenantId uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindCurrentForTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "No subscription found")
	}
	return dto.ToSubscriptionResponse(sub, time.Now()), nil
}

func (s *subscriptionService) Renew(ctx context.Context, subscriptionId uuid.UUID, durationDays int) (*entity.Subscription, error) {
	if durationDays <= 0 {
		durationDays = DefaultRenewalDays
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subscriptionId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Subscription not found")
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %s referenced by subscription %s is gone", sub.PlanId, sub.Id)
	}

	now := time.Now()

	// Extend from whichever is later: an active subscription keeps its
	// remaining days, a lapsed one restarts from now.
	base := now
	if sub.EndsAt != nil && sub.EndsAt.After(now) {
		base = *sub.EndsAt
	}
	newEnd := base.AddDate(0, 0, durationDays)

	sub.Status = entity.SubscriptionStatusActive
	sub.EndsAt = &newEnd
	sub.RenewedAt = &now
	sub.CanceledAt = nil
	sub.ConsecutiveFailures = 0
	sub.NextPaymentAt = &newEnd
	sub.UpdatedAt = now

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.invoiceService.ReconcileForSubscription(ctx, uow, sub, plan); err != nil {
		return nil, err
	}

	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    sub.TenantId,
		Category:    "billing",
		Action:      "subscription.renewed",
		Description: fmt.Sprintf("Subscription renewed for %d days, ends %s", durationDays, newEnd.Format("2 Jan 2006")),
		EntityType:  "subscription",
		EntityId:    sub.Id,
		Metadata: map[string]interface{}{
			"duration_days": durationDays,
			"ends_at":       newEnd,
		},
		CreatedAt: now,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSubscriptionRenewed(sub)); err != nil {
			s.log.Warn("subscription", "Failed to publish renewal event", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
		}
	}

	s.log.Info("subscription", "Subscription renewed", map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       sub.TenantId,
		"ends_at":         newEnd,
	})
	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, tenantId uuid.UUID, req *dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindCurrentForTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "No subscription found")
	}
	if sub.IsCanceled() {
		return nil, serverutils.NewApiError(fiber.StatusConflict, "Subscription is already canceled")
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %s referenced by subscription %s is gone", sub.PlanId, sub.Id)
	}

	now := time.Now()
	sub.CanceledAt = &now
	sub.AutoRenew = false
	if req.Immediate {
		sub.Status = entity.SubscriptionStatusCanceled
		sub.EndsAt = &now
	}
	sub.UpdatedAt = now

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	// Immediate cancellation shrinks the billing window; invoices already
	// written for periods past the new ends_at must not stay payable.
	if err := s.invoiceService.ReconcileForSubscription(ctx, uow, sub, plan); err != nil {
		return nil, err
	}

	action := "subscription.cancel_scheduled"
	if req.Immediate {
		action = "subscription.canceled"
	}
	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    tenantId,
		Category:    "billing",
		Action:      action,
		Description: fmt.Sprintf("Subscription canceled (immediate=%t)", req.Immediate),
		EntityType:  "subscription",
		EntityId:    sub.Id,
		Metadata: map[string]interface{}{
			"immediate": req.Immediate,
			"reason":    req.Reason,
		},
		CreatedAt: now,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("subscription", "Subscription canceled", map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       tenantId,
		"immediate":       req.Immediate,
	})
	return dto.ToSubscriptionResponse(sub, now), nil
}

func (s *subscriptionService) ChangePlan(ctx context.Context, tenantId uuid.UUID, planSlug string) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindCurrentForTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "No subscription found")
	}
	if sub.IsCanceled() {
		return nil, serverutils.NewApiError(fiber.StatusConflict, "Cannot change plan on a canceled subscription")
	}

	plan, err := uow.PlanRepository().FindOne(ctx, specification.BySlug{Slug: planSlug})
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Plan not found")
	}
	if plan.Id == sub.PlanId {
		return nil, serverutils.NewApiError(fiber.StatusConflict, "Subscription is already on this plan")
	}

	now := time.Now()
	previousPlanId := sub.PlanId
	sub.PlanId = plan.Id
	sub.Price = plan.Price
	sub.UpdatedAt = now

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	// The price snapshot changed, so open-window invoices billed at the old
	// price get voided and rewritten at the new one.
	if err := s.invoiceService.ReconcileForSubscription(ctx, uow, sub, plan); err != nil {
		return nil, err
	}

	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    tenantId,
		Category:    "billing",
		Action:      "subscription.plan_changed",
		Description: fmt.Sprintf("Plan changed to %s", plan.Name),
		EntityType:  "subscription",
		EntityId:    sub.Id,
		Metadata: map[string]interface{}{
			"previous_plan_id": previousPlanId,
			"new_plan_id":      plan.Id,
			"new_price":        plan.Price,
		},
		CreatedAt: now,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return dto.ToSubscriptionResponse(sub, now), nil
}
