package mapper

import (
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                  s.Id,
		TenantId:            s.TenantId,
		PlanId:              s.PlanId,
		Status:              entity.SubscriptionStatus(s.Status),
		Price:               s.Price,
		AutoRenew:           s.AutoRenew,
		StartsAt:            s.StartsAt,
		EndsAt:              s.EndsAt,
		TrialEndsAt:         s.TrialEndsAt,
		RenewedAt:           s.RenewedAt,
		CanceledAt:          s.CanceledAt,
		LastPaymentAt:       s.LastPaymentAt,
		NextPaymentAt:       s.NextPaymentAt,
		ConsecutiveFailures: s.ConsecutiveFailures,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                  s.Id,
		TenantId:            s.TenantId,
		PlanId:              s.PlanId,
		Status:              string(s.Status),
		Price:               s.Price,
		AutoRenew:           s.AutoRenew,
		StartsAt:            s.StartsAt,
		EndsAt:              s.EndsAt,
		TrialEndsAt:         s.TrialEndsAt,
		RenewedAt:           s.RenewedAt,
		CanceledAt:          s.CanceledAt,
		LastPaymentAt:       s.LastPaymentAt,
		NextPaymentAt:       s.NextPaymentAt,
		ConsecutiveFailures: s.ConsecutiveFailures,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
