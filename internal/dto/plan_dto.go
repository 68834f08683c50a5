package dto

import (
	"school-mgmt-be/internal/entity"

	"github.com/google/uuid"
)

type CreatePlanRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=100"`
	Slug            string   `json:"slug" validate:"required,min=2,max=100,lowercase"`
	Description     string   `json:"description" validate:"max=500"`
	Price           float64  `json:"price" validate:"gte=0"`
	BillingPeriod   string   `json:"billing_period" validate:"required,oneof=monthly yearly"`
	TrialPeriodDays int      `json:"trial_period_days" validate:"gte=0,lte=365"`
	Features        []string `json:"features"`
	SortOrder       int      `json:"sort_order"`
}

type UpdatePlanRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Description     *string  `json:"description" validate:"omitempty,max=500"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	TrialPeriodDays *int     `json:"trial_period_days" validate:"omitempty,gte=0,lte=365"`
	Features        []string `json:"features"`
	IsActive        *bool    `json:"is_active"`
	SortOrder       *int     `json:"sort_order"`
}

type PlanResponse struct {
	Id              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	BillingPeriod   string    `json:"billing_period"`
	TrialPeriodDays int       `json:"trial_period_days"`
	Features        []string  `json:"features"`
	IsActive        bool      `json:"is_active"`
	SortOrder       int       `json:"sort_order"`
}

func ToPlanResponse(plan *entity.Plan) *PlanResponse {
	if plan == nil {
		return nil
	}
	return &PlanResponse{
		Id:              plan.Id,
		Name:            plan.Name,
		Slug:            plan.Slug,
		Description:     plan.Description,
		Price:           plan.Price,
		BillingPeriod:   string(plan.BillingPeriod),
		TrialPeriodDays: plan.TrialPeriodDays,
		Features:        plan.Features,
		IsActive:        plan.IsActive,
		SortOrder:       plan.SortOrder,
	}
}

func ToPlanResponses(plans []*entity.Plan) []*PlanResponse {
	responses := make([]*PlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, ToPlanResponse(plan))
	}
	return responses
}
