package events

import (
	"time"

	"school-mgmt-be/internal/entity"
)

// Lifecycle signal names. External handlers (notification workers, dashboards)
// subscribe to these; delivery is fire-and-forget, at most once per sweep pass.
const (
	TypeSubscriptionExpiring = "SUBSCRIPTION_EXPIRING"
	TypeSubscriptionRenewed  = "SUBSCRIPTION_RENEWED"
	TypePaymentFailed        = "PAYMENT_FAILED"
)

// subscriptionPayload carries the full subscription record, per the event
// contract.
func subscriptionPayload(sub *entity.Subscription) map[string]interface{} {
	payload := map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       sub.TenantId,
		"plan_id":         sub.PlanId,
		"status":          string(sub.Status),
		"price":           sub.Price,
		"auto_renew":      sub.AutoRenew,
		"starts_at":       sub.StartsAt,
	}
	if sub.EndsAt != nil {
		payload["ends_at"] = *sub.EndsAt
	}
	if sub.TrialEndsAt != nil {
		payload["trial_ends_at"] = *sub.TrialEndsAt
	}
	if sub.RenewedAt != nil {
		payload["renewed_at"] = *sub.RenewedAt
	}
	if sub.CanceledAt != nil {
		payload["canceled_at"] = *sub.CanceledAt
	}
	return payload
}

func NewSubscriptionExpiring(sub *entity.Subscription) Event {
	return BaseEvent{
		Type:       TypeSubscriptionExpiring,
		Data:       subscriptionPayload(sub),
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionRenewed(sub *entity.Subscription) Event {
	return BaseEvent{
		Type:       TypeSubscriptionRenewed,
		Data:       subscriptionPayload(sub),
		OccurredAt: time.Now(),
	}
}

func NewPaymentFailed(sub *entity.Subscription, reason string) Event {
	payload := subscriptionPayload(sub)
	payload["failure_reason"] = reason
	payload["consecutive_failures"] = sub.ConsecutiveFailures
	return BaseEvent{
		Type:       TypePaymentFailed,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}
