package entity

import (
	"github.com/google/uuid"
)

// Plan is a purchasable subscription tier. Once a live subscription references
// a plan only price and the feature list are expected to change; hard deletion
// is refused while references exist.
type Plan struct {
	Id              uuid.UUID
	Name            string
	Slug            string
	Description     string
	Price           float64
	BillingPeriod   BillingPeriod
	TrialPeriodDays int
	Features        []string // ordered display strings
	IsActive        bool
	SortOrder       int
}
