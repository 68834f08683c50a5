package service

import (
	"context"
	"testing"
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupCreatesTenantWithTrialSubscription(t *testing.T) {
	factory := newFakeFactory()
	svc := NewTenantService(factory, noopLogger{})
	ctx := context.Background()

	plan := testPlan()
	plan.TrialPeriodDays = 14
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))

	res, err := svc.Signup(ctx, &dto.SignupTenantRequest{
		Name:         "Springfield Elementary",
		Slug:         "springfield",
		ContactEmail: "admin@springfield.edu",
		PlanSlug:     plan.Slug,
	})
	require.NoError(t, err)

	assert.Equal(t, "springfield", res.Tenant.Slug)
	assert.True(t, res.Tenant.IsActive)

	sub := res.Subscription
	require.NotNil(t, sub)
	assert.Equal(t, res.Tenant.Id, sub.TenantId)
	assert.Equal(t, plan.Id, sub.PlanId)
	assert.Equal(t, plan.Price, sub.Price)
	assert.True(t, sub.AutoRenew)
	require.NotNil(t, sub.TrialEndsAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), *sub.TrialEndsAt, 5*time.Second)
	assert.Equal(t, string(entity.SubscriptionStatusTrial), sub.EffectiveStatus)
}

func TestSignupRejectsDuplicateSlug(t *testing.T) {
	factory := newFakeFactory()
	svc := NewTenantService(factory, noopLogger{})
	ctx := context.Background()

	plan := testPlan()
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))

	req := &dto.SignupTenantRequest{
		Name:         "Springfield Elementary",
		Slug:         "springfield",
		ContactEmail: "admin@springfield.edu",
		PlanSlug:     plan.Slug,
	}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	assert.Error(t, err)
}

func TestSignupRejectsUnknownPlan(t *testing.T) {
	factory := newFakeFactory()
	svc := NewTenantService(factory, noopLogger{})

	_, err := svc.Signup(context.Background(), &dto.SignupTenantRequest{
		Name:         "Shelbyville High",
		Slug:         "shelbyville",
		ContactEmail: "admin@shelbyville.edu",
		PlanSlug:     "does-not-exist",
	})
	assert.Error(t, err)
}
