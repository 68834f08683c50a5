package specification

import (
	"time"

	"gorm.io/gorm"
)

// StatusIs filters subscriptions or invoices by their stored status column.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// EndsAfter selects rows whose ends_at is strictly after the given instant.
// Open-ended subscriptions (ends_at NULL) never match.
type EndsAfter struct {
	Time time.Time
}

func (s EndsAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ends_at > ?", s.Time)
}

// EndsOnOrBefore selects rows whose ends_at falls at or before the given
// instant. Used by the sweep windows.
type EndsOnOrBefore struct {
	Time time.Time
}

func (s EndsOnOrBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ends_at <= ?", s.Time)
}

// AutoRenewEnabled selects subscriptions flagged for automatic renewal.
type AutoRenewEnabled struct{}

func (s AutoRenewEnabled) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("auto_renew = ?", true)
}

// PeriodEndWithin selects invoices whose billing_period_end falls inside
// [From, To]. This is the generation idempotency probe.
type PeriodEndWithin struct {
	From time.Time
	To   time.Time
}

func (s PeriodEndWithin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("billing_period_end >= ? AND billing_period_end <= ?", s.From, s.To)
}

// StatusNot excludes one status value (e.g. voided invoices).
type StatusNot struct {
	Status string
}

func (s StatusNot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", s.Status)
}
