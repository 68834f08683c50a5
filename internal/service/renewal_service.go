package service

import (
	"context"
	"fmt"
	"time"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/pkg/events"

	"github.com/google/uuid"
)

// MaxConsecutiveFailures is the escalation threshold: once a subscription
// fails this many charges in a row, auto renew is switched off and a human
// takes over.
const MaxConsecutiveFailures = 3

// perItemTimeout bounds one subscription's processing inside a sweep so a
// stuck gateway call cannot stall the whole batch.
const perItemTimeout = 30 * time.Second

// SweepSummary reports one ProcessRenewals pass.
type SweepSummary struct {
	Scanned  int
	Warned   int
	Renewed  int
	Failed   int
	Duration time.Duration
}

type IRenewalService interface {
	// ProcessRenewals runs one sweep pass: warn subscriptions expiring within
	// the warn window, then charge and renew auto-renew subscriptions ending
	// within the renew window. One subscription failing never aborts the
	// rest.
	ProcessRenewals(ctx context.Context, now time.Time) (*SweepSummary, error)
}

type renewalService struct {
	uowFactory          unitofwork.RepositoryFactory
	subscriptionService ISubscriptionService
	paymentService      IPaymentService
	eventPublisher      EventPublisher
	log                 logger.ILogger
	warnWindow          time.Duration
	renewWindow         time.Duration
}

func NewRenewalService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptionService ISubscriptionService,
	paymentService IPaymentService,
	eventPublisher EventPublisher,
	log logger.ILogger,
	warnWindow time.Duration,
	renewWindow time.Duration,
) IRenewalService {
	return &renewalService{
		uowFactory:          uowFactory,
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
		eventPublisher:      eventPublisher,
		log:                 log,
		warnWindow:          warnWindow,
		renewWindow:         renewWindow,
	}
}

func (s *renewalService) ProcessRenewals(ctx context.Context, now time.Time) (*SweepSummary, error) {
	started := time.Now()
	summary := &SweepSummary{}

	if err := s.warnExpiring(ctx, now, summary); err != nil {
		return summary, err
	}
	if err := s.renewDue(ctx, now, summary); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(started)
	s.log.Info("sweep", "Sweep pass finished", map[string]interface{}{
		"scanned":  summary.Scanned,
		"warned":   summary.Warned,
		"renewed":  summary.Renewed,
		"failed":   summary.Failed,
		"duration": summary.Duration.String(),
	})
	return summary, nil
}

func (s *renewalService) warnExpiring(ctx context.Context, now time.Time, summary *SweepSummary) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusNot{Status: string(entity.SubscriptionStatusCanceled)},
		specification.EndsAfter{Time: now},
		specification.EndsOnOrBefore{Time: now.Add(s.warnWindow)},
	)
	if err != nil {
		return fmt.Errorf("warn query failed: %w", err)
	}

	summary.Scanned += len(subs)
	for _, sub := range subs {
		if err := s.warnOne(ctx, sub); err != nil {
			summary.Failed++
			s.log.Error("sweep", "Failed to warn subscription", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
			continue
		}
		summary.Warned++
	}
	return nil
}

func (s *renewalService) warnOne(ctx context.Context, sub *entity.Subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while warning subscription %s: %v", sub.Id, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, perItemTimeout)
	defer cancel()

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSubscriptionExpiring(sub)); err != nil {
			return err
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    sub.TenantId,
		Category:    "billing",
		Action:      "subscription.expiring_soon",
		Description: fmt.Sprintf("Subscription expires %s", sub.EndsAt.Format("2 Jan 2006")),
		EntityType:  "subscription",
		EntityId:    sub.Id,
		Metadata: map[string]interface{}{
			"ends_at": *sub.EndsAt,
		},
		CreatedAt: time.Now(),
	}
	return uow.ActivityRepository().Create(ctx, activity)
}

func (s *renewalService) renewDue(ctx context.Context, now time.Time, summary *SweepSummary) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.AutoRenewEnabled{},
		specification.StatusNot{Status: string(entity.SubscriptionStatusCanceled)},
		specification.EndsOnOrBefore{Time: now.Add(s.renewWindow)},
	)
	if err != nil {
		return fmt.Errorf("renew query failed: %w", err)
	}

	summary.Scanned += len(subs)
	for _, sub := range subs {
		if err := s.renewOne(ctx, sub); err != nil {
			summary.Failed++
			s.recordFailure(ctx, sub, err)
			continue
		}
		summary.Renewed++
	}
	return nil
}

func (s *renewalService) renewOne(ctx context.Context, sub *entity.Subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while renewing subscription %s: %v", sub.Id, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, perItemTimeout)
	defer cancel()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan %s referenced by subscription %s is gone", sub.PlanId, sub.Id)
	}

	intent, err := s.paymentService.CreatePaymentIntent(ctx, sub, plan, sub.Price)
	if err != nil {
		return err
	}
	captured, err := s.paymentService.ProcessPayment(ctx, intent.OrderId)
	if err != nil {
		return err
	}
	if !captured {
		return fmt.Errorf("charge %s not settled (status %s)", intent.OrderId, intent.Status)
	}

	durationDays := DefaultRenewalDays
	if plan.BillingPeriod == entity.BillingPeriodYearly {
		durationDays = 365
	}

	if _, err := s.subscriptionService.Renew(ctx, sub.Id, durationDays); err != nil {
		return err
	}

	uow = s.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
	if err != nil || updated == nil {
		return nil // renewal committed, payment bookkeeping is best effort
	}
	paidAt := time.Now()
	updated.LastPaymentAt = &paidAt
	updated.ConsecutiveFailures = 0
	updated.UpdatedAt = paidAt
	return uow.SubscriptionRepository().Update(ctx, updated)
}

// recordFailure bumps the failure counter and escalates at the threshold.
func (s *renewalService) recordFailure(ctx context.Context, sub *entity.Subscription, cause error) {
	s.log.Error("sweep", "Renewal failed", map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       sub.TenantId,
		"error":           cause.Error(),
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return
	}
	defer uow.Rollback()

	fresh, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
	if err != nil || fresh == nil {
		return
	}

	now := time.Now()
	fresh.ConsecutiveFailures++
	if fresh.ConsecutiveFailures >= MaxConsecutiveFailures {
		fresh.AutoRenew = false
	}
	fresh.UpdatedAt = now

	if err := uow.SubscriptionRepository().Update(ctx, fresh); err != nil {
		return
	}

	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    fresh.TenantId,
		Category:    "billing",
		Action:      "subscription.renewal_failed",
		Description: fmt.Sprintf("Renewal attempt %d failed: %v", fresh.ConsecutiveFailures, cause),
		EntityType:  "subscription",
		EntityId:    fresh.Id,
		Metadata: map[string]interface{}{
			"consecutive_failures": fresh.ConsecutiveFailures,
			"auto_renew_disabled":  !fresh.AutoRenew,
		},
		CreatedAt: now,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return
	}

	if err := uow.Commit(); err != nil {
		return
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewPaymentFailed(fresh, cause.Error())); err != nil {
			s.log.Warn("sweep", "Failed to publish payment failure event", map[string]interface{}{
				"subscription_id": fresh.Id,
				"error":           err.Error(),
			})
		}
	}
}
