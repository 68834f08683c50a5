package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return unitofwork.NewRepositoryFactory(gormDB)
}

func TestRepositoriesWired(t *testing.T) {
	factory := connect(t)
	uow := factory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.TenantRepository())
	assert.NotNil(t, uow.PlanRepository())
	assert.NotNil(t, uow.SubscriptionRepository())
	assert.NotNil(t, uow.InvoiceRepository())
	assert.NotNil(t, uow.ActivityRepository())

	count, err := uow.TenantRepository().Count(context.Background())
	assert.NoError(t, err)
	t.Logf("Tenant count: %d", count)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	factory := connect(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	now := time.Now()
	tenant := &entity.Tenant{
		Id:           uuid.New(),
		Name:         "Integration Test School",
		Slug:         "it-school-" + uuid.NewString()[:8],
		ContactEmail: "it@example.com",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, uow.TenantRepository().Create(ctx, tenant))

	plan := &entity.Plan{
		Id:            uuid.New(),
		Name:          "IT Plan",
		Slug:          "it-plan-" + uuid.NewString()[:8],
		Price:         42,
		BillingPeriod: entity.BillingPeriodMonthly,
		IsActive:      true,
	}
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))

	ends := now.AddDate(0, 1, 0)
	sub := &entity.Subscription{
		Id:        uuid.New(),
		TenantId:  tenant.Id,
		PlanId:    plan.Id,
		Status:    entity.SubscriptionStatusActive,
		Price:     plan.Price,
		AutoRenew: true,
		StartsAt:  now,
		EndsAt:    &ends,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, uow.SubscriptionRepository().Create(ctx, sub))

	found, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tenant.Id, found.TenantId)
	assert.Equal(t, entity.SubscriptionStatusActive, found.Status)

	current, err := uow.SubscriptionRepository().FindCurrentForTenant(ctx, tenant.Id)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, sub.Id, current.Id)
}

func TestInvoiceSequenceAllocation(t *testing.T) {
	factory := connect(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	first, err := uow.InvoiceRepository().NextSequence(ctx)
	require.NoError(t, err)
	assert.Greater(t, first, int64(0))
}

func TestInvoiceSequenceConcurrentAllocation(t *testing.T) {
	factory := connect(t)
	ctx := context.Background()

	// Two transactions allocating at once must not read the same MAX. The
	// advisory lock holds each allocator until its commit, so the slower
	// goroutine sees the row the faster one wrote.
	results := make(chan *entity.Invoice, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			uow := factory.NewUnitOfWork(ctx)
			if err := uow.Begin(ctx); err != nil {
				errs <- err
				return
			}
			defer uow.Rollback()

			seq, err := uow.InvoiceRepository().NextSequence(ctx)
			if err != nil {
				errs <- err
				return
			}

			now := time.Now()
			invoice := &entity.Invoice{
				Id:                 uuid.New(),
				TenantId:           uuid.New(),
				SubscriptionId:     uuid.New(),
				Number:             "IT-" + uuid.NewString()[:18],
				Sequence:           seq,
				Status:             entity.InvoiceStatusCanceled,
				BillingPeriodStart: now,
				BillingPeriodEnd:   now.AddDate(0, 1, 0),
				DueDate:            now.AddDate(0, 0, 7),
				Amount:             1,
				Subtotal:           1,
				Total:              1,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
				errs <- err
				return
			}
			if err := uow.Commit(); err != nil {
				errs <- err
				return
			}
			results <- invoice
		}()
	}

	var created []*entity.Invoice
	for len(created) < 2 {
		select {
		case err := <-errs:
			t.Fatalf("concurrent allocation failed: %v", err)
		case invoice := <-results:
			created = append(created, invoice)
		case <-time.After(30 * time.Second):
			t.Fatal("timed out waiting for sequence allocation")
		}
	}

	assert.NotEqual(t, created[0].Sequence, created[1].Sequence)

	cleanup := factory.NewUnitOfWork(ctx)
	for _, invoice := range created {
		assert.NoError(t, cleanup.InvoiceRepository().Delete(ctx, invoice.Id))
	}
}
