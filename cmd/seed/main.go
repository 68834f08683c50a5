package main

import (
	"context"
	"log"

	"school-mgmt-be/internal/config"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.DBConnectionString)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	plans := []*entity.Plan{
		{
			Id:              uuid.New(),
			Name:            "Starter",
			Slug:            "starter",
			Description:     "Small schools getting online",
			Price:           49,
			BillingPeriod:   entity.BillingPeriodMonthly,
			TrialPeriodDays: 14,
			Features:        []string{"Up to 200 students", "Attendance tracking", "Email support"},
			IsActive:        true,
			SortOrder:       1,
		},
		{
			Id:              uuid.New(),
			Name:            "Growth",
			Slug:            "growth",
			Description:     "Growing schools with multiple campuses",
			Price:           149,
			BillingPeriod:   entity.BillingPeriodMonthly,
			TrialPeriodDays: 14,
			Features:        []string{"Up to 2000 students", "Attendance tracking", "Gradebook", "Parent portal", "Priority support"},
			IsActive:        true,
			SortOrder:       2,
		},
		{
			Id:              uuid.New(),
			Name:            "Enterprise",
			Slug:            "enterprise",
			Description:     "Districts and school networks",
			Price:           1490,
			BillingPeriod:   entity.BillingPeriodYearly,
			TrialPeriodDays: 30,
			Features:        []string{"Unlimited students", "All features", "SSO", "Dedicated support"},
			IsActive:        true,
			SortOrder:       3,
		},
	}

	seeded := 0
	for _, plan := range plans {
		existing, err := uow.PlanRepository().FindOne(ctx, specification.BySlug{Slug: plan.Slug})
		if err != nil {
			log.Panicf("Seed lookup failed: %v", err)
		}
		if existing != nil {
			continue
		}
		if err := uow.PlanRepository().Create(ctx, plan); err != nil {
			log.Panicf("Seed insert failed for %s: %v", plan.Slug, err)
		}
		seeded++
	}

	color.Green("✅ Seeded %d plans", seeded)
}
