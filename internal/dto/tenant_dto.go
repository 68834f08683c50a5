package dto

import (
	"time"

	"school-mgmt-be/internal/entity"

	"github.com/google/uuid"
)

type SignupTenantRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=150"`
	Slug         string `json:"slug" validate:"required,min=2,max=100,lowercase"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	PlanSlug     string `json:"plan_slug" validate:"required"`
}

type UpdateTenantRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=150"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	IsActive     *bool   `json:"is_active"`
}

type TenantResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contact_email"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupTenantResponse struct {
	Tenant       *TenantResponse       `json:"tenant"`
	Subscription *SubscriptionResponse `json:"subscription"`
}

func ToTenantResponse(tenant *entity.Tenant) *TenantResponse {
	if tenant == nil {
		return nil
	}
	return &TenantResponse{
		Id:           tenant.Id,
		Name:         tenant.Name,
		Slug:         tenant.Slug,
		ContactEmail: tenant.ContactEmail,
		IsActive:     tenant.IsActive,
		CreatedAt:    tenant.CreatedAt,
	}
}

func ToTenantResponses(tenants []*entity.Tenant) []*TenantResponse {
	responses := make([]*TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		responses = append(responses, ToTenantResponse(tenant))
	}
	return responses
}
