package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingPeriod string

const (
	SubscriptionStatusActive       SubscriptionStatus = "active"
	SubscriptionStatusTrial        SubscriptionStatus = "trial"
	SubscriptionStatusExpired      SubscriptionStatus = "expired"
	SubscriptionStatusCanceled     SubscriptionStatus = "canceled"
	SubscriptionStatusCanceling    SubscriptionStatus = "canceling"
	SubscriptionStatusExpiringSoon SubscriptionStatus = "expiring_soon"

	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

// ExpiryWarningWindow is how far before ends_at a subscription starts
// reporting expiring_soon.
const ExpiryWarningWindow = 30 * 24 * time.Hour

// Subscription is a tenant's time-bounded association with a plan.
// Price is snapshotted from the plan at creation and may diverge from the
// catalog later. EndsAt nil means open-ended.
type Subscription struct {
	Id                  uuid.UUID
	TenantId            uuid.UUID
	PlanId              uuid.UUID
	Status              SubscriptionStatus
	Price               float64
	AutoRenew           bool
	StartsAt            time.Time
	EndsAt              *time.Time
	TrialEndsAt         *time.Time
	RenewedAt           *time.Time
	CanceledAt          *time.Time
	LastPaymentAt       *time.Time
	NextPaymentAt       *time.Time
	ConsecutiveFailures int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EffectiveStatus derives the status a caller should trust, independent of the
// stored Status column. It is a priority-ordered decision list: each rule is
// only reached when every rule above it failed.
func (s *Subscription) EffectiveStatus(now time.Time) SubscriptionStatus {
	if s.Status == SubscriptionStatusCanceled {
		return SubscriptionStatusCanceled
	}
	if s.TrialEndsAt != nil && s.TrialEndsAt.After(now) {
		return SubscriptionStatusTrial
	}
	if s.EndsAt != nil && s.EndsAt.Before(now) {
		return SubscriptionStatusExpired
	}
	if s.CanceledAt != nil && s.EndsAt != nil && s.EndsAt.After(now) {
		return SubscriptionStatusCanceling
	}
	if s.EndsAt != nil && s.EndsAt.Add(-ExpiryWarningWindow).Before(now) {
		return SubscriptionStatusExpiringSoon
	}
	return SubscriptionStatusActive
}

// The predicates below are kept alongside EffectiveStatus because callers
// (access checks, sweep queries) historically used them with boundary
// conditions that differ slightly from the decision list. They can disagree
// with EffectiveStatus near boundaries; do not mix the two in one code path.

// IsActive ignores trial state entirely: a stored-active subscription inside
// its period counts as active even while trialing.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.EndsAt == nil || s.EndsAt.After(now)
}

func (s *Subscription) IsTrialing(now time.Time) bool {
	return s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return s.EndsAt != nil && !s.EndsAt.After(now)
}

func (s *Subscription) IsCanceled() bool {
	return s.Status == SubscriptionStatusCanceled || s.CanceledAt != nil
}

func (s *Subscription) IsExpiringSoon(now time.Time) bool {
	if s.EndsAt == nil || !s.EndsAt.After(now) {
		return false
	}
	return s.EndsAt.Sub(now) <= ExpiryWarningWindow
}
