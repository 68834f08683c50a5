package dto

import (
	"time"

	"school-mgmt-be/internal/entity"

	"github.com/google/uuid"
)

type RenewSubscriptionRequest struct {
	// DurationDays extends the subscription by this many days from
	// max(ends_at, now). Defaults to 30 when omitted.
	DurationDays int `json:"duration_days" validate:"omitempty,gt=0,lte=366"`
}

type CancelSubscriptionRequest struct {
	// Immediate cancels right now; otherwise access continues until ends_at.
	Immediate bool   `json:"immediate"`
	Reason    string `json:"reason" validate:"max=500"`
}

type ChangePlanRequest struct {
	PlanSlug string `json:"plan_slug" validate:"required"`
}

type SubscriptionResponse struct {
	Id                  uuid.UUID  `json:"id"`
	TenantId            uuid.UUID  `json:"tenant_id"`
	PlanId              uuid.UUID  `json:"plan_id"`
	Status              string     `json:"status"`
	EffectiveStatus     string     `json:"effective_status"`
	Price               float64    `json:"price"`
	AutoRenew           bool       `json:"auto_renew"`
	StartsAt            time.Time  `json:"starts_at"`
	EndsAt              *time.Time `json:"ends_at,omitempty"`
	TrialEndsAt         *time.Time `json:"trial_ends_at,omitempty"`
	RenewedAt           *time.Time `json:"renewed_at,omitempty"`
	CanceledAt          *time.Time `json:"canceled_at,omitempty"`
	LastPaymentAt       *time.Time `json:"last_payment_at,omitempty"`
	NextPaymentAt       *time.Time `json:"next_payment_at,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	DaysRemaining       *int       `json:"days_remaining,omitempty"`
}

func ToSubscriptionResponse(sub *entity.Subscription, now time.Time) *SubscriptionResponse {
	if sub == nil {
		return nil
	}
	resp := &SubscriptionResponse{
		Id:                  sub.Id,
		TenantId:            sub.TenantId,
		PlanId:              sub.PlanId,
		Status:              string(sub.Status),
		EffectiveStatus:     string(sub.EffectiveStatus(now)),
		Price:               sub.Price,
		AutoRenew:           sub.AutoRenew,
		StartsAt:            sub.StartsAt,
		EndsAt:              sub.EndsAt,
		TrialEndsAt:         sub.TrialEndsAt,
		RenewedAt:           sub.RenewedAt,
		CanceledAt:          sub.CanceledAt,
		LastPaymentAt:       sub.LastPaymentAt,
		NextPaymentAt:       sub.NextPaymentAt,
		ConsecutiveFailures: sub.ConsecutiveFailures,
	}
	if sub.EndsAt != nil && sub.EndsAt.After(now) {
		days := int(sub.EndsAt.Sub(now).Hours() / 24)
		resp.DaysRemaining = &days
	}
	return resp
}
