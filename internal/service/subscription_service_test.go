package service

import (
	"context"
	"testing"
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionServiceForTest(t *testing.T) (ISubscriptionService, *fakeFactory, *capturingPublisher) {
	t.Helper()
	factory := newFakeFactory()
	publisher := &capturingPublisher{}
	invoiceService := NewInvoiceService(factory, &stubMailDispatch{}, noopLogger{}, 0)
	svc := NewSubscriptionService(factory, invoiceService, publisher, noopLogger{})
	return svc, factory, publisher
}

func seedSubscription(t *testing.T, factory *fakeFactory, sub *entity.Subscription, plan *entity.Plan) {
	t.Helper()
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))
	sub.PlanId = plan.Id
	require.NoError(t, uow.SubscriptionRepository().Create(ctx, sub))
}

func TestRenewExtendsFromRemainingTime(t *testing.T) {
	svc, factory, publisher := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -2, 0), now.AddDate(0, 0, 10))
	seedSubscription(t, factory, sub, testPlan())

	renewed, err := svc.Renew(ctx, sub.Id, 30)
	require.NoError(t, err)

	// 10 days left + 30 renewed = about 40 days out
	require.NotNil(t, renewed.EndsAt)
	want := sub.EndsAt.AddDate(0, 0, 30)
	assert.WithinDuration(t, want, *renewed.EndsAt, time.Second)

	assert.Equal(t, entity.SubscriptionStatusActive, renewed.Status)
	assert.NotNil(t, renewed.RenewedAt)
	assert.Nil(t, renewed.CanceledAt)
	assert.Zero(t, renewed.ConsecutiveFailures)

	assert.Len(t, publisher.byType(events.TypeSubscriptionRenewed), 1)
}

func TestRenewLapsedRestartsFromNow(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -3, 0), now.AddDate(0, 0, -40))
	seedSubscription(t, factory, sub, testPlan())

	renewed, err := svc.Renew(ctx, sub.Id, 30)
	require.NoError(t, err)

	require.NotNil(t, renewed.EndsAt)
	assert.WithinDuration(t, now.AddDate(0, 0, 30), *renewed.EndsAt, 5*time.Second)
}

func TestRenewDefaultsToThirtyDays(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, 0, -30), now.AddDate(0, 0, -1))
	seedSubscription(t, factory, sub, testPlan())

	renewed, err := svc.Renew(ctx, sub.Id, 0)
	require.NoError(t, err)
	require.NotNil(t, renewed.EndsAt)
	assert.WithinDuration(t, now.AddDate(0, 0, DefaultRenewalDays), *renewed.EndsAt, 5*time.Second)
}

func TestRenewClearsScheduledCancellation(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 5))
	canceledAt := now.AddDate(0, 0, -2)
	sub.CanceledAt = &canceledAt
	seedSubscription(t, factory, sub, testPlan())

	renewed, err := svc.Renew(ctx, sub.Id, 30)
	require.NoError(t, err)
	assert.Nil(t, renewed.CanceledAt)
	assert.Equal(t, entity.SubscriptionStatusCanceling, sub.EffectiveStatus(now))
	assert.NotEqual(t, entity.SubscriptionStatusCanceling, renewed.EffectiveStatus(now))
}

func TestRenewGeneratesInvoicesInsideSameTransaction(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, 0, -20), now.AddDate(0, 0, 10))
	seedSubscription(t, factory, sub, testPlan())

	_, err := svc.Renew(ctx, sub.Id, 30)
	require.NoError(t, err)

	uow := factory.NewUnitOfWork(ctx)
	invoices, err := uow.InvoiceRepository().FindAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, invoices)
	for _, inv := range invoices {
		assert.Equal(t, sub.Id, inv.SubscriptionId)
	}
}

func TestRenewUnknownSubscription(t *testing.T) {
	svc, _, _ := newSubscriptionServiceForTest(t)
	_, err := svc.Renew(context.Background(), uuid.New(), 30)
	assert.Error(t, err)
}

func TestCancelImmediate(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 20))
	seedSubscription(t, factory, sub, testPlan())

	res, err := svc.Cancel(ctx, sub.TenantId, &dto.CancelSubscriptionRequest{Immediate: true, Reason: "closing school"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.SubscriptionStatusCanceled), res.Status)
	assert.False(t, res.AutoRenew)
	require.NotNil(t, res.CanceledAt)
	require.NotNil(t, res.EndsAt)
	assert.WithinDuration(t, now, *res.EndsAt, 5*time.Second)
}

func TestCancelDeferredKeepsAccessUntilPeriodEnd(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	periodEnd := now.AddDate(0, 0, 20)
	sub := activeSub(now.AddDate(0, -1, 0), periodEnd)
	seedSubscription(t, factory, sub, testPlan())

	res, err := svc.Cancel(ctx, sub.TenantId, &dto.CancelSubscriptionRequest{Immediate: false})
	require.NoError(t, err)

	assert.Equal(t, string(entity.SubscriptionStatusActive), res.Status)
	assert.Equal(t, string(entity.SubscriptionStatusCanceling), res.EffectiveStatus)
	assert.False(t, res.AutoRenew)
	require.NotNil(t, res.EndsAt)
	assert.WithinDuration(t, periodEnd, *res.EndsAt, time.Second)
}

func TestCancelImmediateVoidsFutureInvoices(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 3, 0))
	plan := testPlan()
	seedSubscription(t, factory, sub, plan)

	invoiceService := NewInvoiceService(factory, &stubMailDispatch{}, noopLogger{}, 0)
	uow := factory.NewUnitOfWork(ctx)
	created, err := invoiceService.GenerateForSubscription(ctx, uow, sub, plan, sub.StartsAt, *sub.EndsAt)
	require.NoError(t, err)
	require.NotEmpty(t, created)

	_, err = svc.Cancel(ctx, sub.TenantId, &dto.CancelSubscriptionRequest{Immediate: true})
	require.NoError(t, err)

	invoices, err := factory.NewUnitOfWork(ctx).InvoiceRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, len(created))

	voided := 0
	for _, inv := range invoices {
		if inv.BillingPeriodEnd.After(now.Add(time.Hour)) {
			assert.Equal(t, entity.InvoiceStatusCanceled, inv.Status,
				"invoice %s covers a period past the cancellation", inv.Number)
		}
		if inv.Status == entity.InvoiceStatusCanceled {
			voided++
		}
	}
	// Everything from the current period onward is gone.
	assert.GreaterOrEqual(t, voided, len(created)-1)
}

func TestCancelTwiceConflicts(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 20))
	seedSubscription(t, factory, sub, testPlan())

	_, err := svc.Cancel(ctx, sub.TenantId, &dto.CancelSubscriptionRequest{Immediate: true})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, sub.TenantId, &dto.CancelSubscriptionRequest{Immediate: true})
	assert.Error(t, err)
}

func TestChangePlanResnapshotsPrice(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 20))
	seedSubscription(t, factory, sub, testPlan())

	other := testPlan()
	other.Id = uuid.New()
	other.Slug = "enterprise"
	other.Name = "Enterprise"
	other.Price = 500
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.PlanRepository().Create(ctx, other))

	res, err := svc.ChangePlan(ctx, sub.TenantId, "enterprise")
	require.NoError(t, err)
	assert.Equal(t, other.Id, res.PlanId)
	assert.Equal(t, 500.0, res.Price)
}

func TestChangePlanRebillsOpenWindowAtNewPrice(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -2, 0), now.AddDate(0, 1, 0))
	plan := testPlan()
	seedSubscription(t, factory, sub, plan)

	invoiceService := NewInvoiceService(factory, &stubMailDispatch{}, noopLogger{}, 0)
	uow := factory.NewUnitOfWork(ctx)
	created, err := invoiceService.GenerateForSubscription(ctx, uow, sub, plan, sub.StartsAt, *sub.EndsAt)
	require.NoError(t, err)
	require.NotEmpty(t, created)

	other := testPlan()
	other.Id = uuid.New()
	other.Slug = "enterprise"
	other.Name = "Enterprise"
	other.Price = 250
	require.NoError(t, factory.NewUnitOfWork(ctx).PlanRepository().Create(ctx, other))

	_, err = svc.ChangePlan(ctx, sub.TenantId, "enterprise")
	require.NoError(t, err)

	invoices, err := factory.NewUnitOfWork(ctx).InvoiceRepository().FindAll(ctx)
	require.NoError(t, err)

	var open, voided []*entity.Invoice
	seen := map[string]bool{}
	for _, inv := range invoices {
		require.False(t, seen[inv.Number], "invoice number %s reused", inv.Number)
		seen[inv.Number] = true
		if inv.Status == entity.InvoiceStatusCanceled {
			voided = append(voided, inv)
		} else {
			open = append(open, inv)
		}
	}

	// Every old-price invoice is voided and each period is rebilled at the
	// re-snapshotted price.
	require.Len(t, voided, len(created))
	require.Len(t, open, len(created))
	for _, inv := range voided {
		assert.Equal(t, 100.0, inv.Subtotal)
	}
	for _, inv := range open {
		assert.Equal(t, 250.0, inv.Subtotal)
	}
}

func TestGetCurrentReturnsLatest(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceForTest(t)
	ctx := context.Background()

	now := time.Now()
	tenantId := uuid.New()

	old := activeSub(now.AddDate(-1, 0, 0), now.AddDate(0, -6, 0))
	old.TenantId = tenantId
	old.CreatedAt = now.AddDate(-1, 0, 0)
	current := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 20))
	current.TenantId = tenantId
	current.CreatedAt = now.AddDate(0, -1, 0)

	plan := testPlan()
	seedSubscription(t, factory, old, plan)
	uow := factory.NewUnitOfWork(ctx)
	current.PlanId = plan.Id
	require.NoError(t, uow.SubscriptionRepository().Create(ctx, current))

	res, err := svc.GetCurrent(ctx, tenantId)
	require.NoError(t, err)
	assert.Equal(t, current.Id, res.Id)
}
