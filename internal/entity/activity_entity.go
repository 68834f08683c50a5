package entity

import (
	"time"

	"github.com/google/uuid"
)

// Activity is one append-only audit record. Rows are never updated or
// deleted after creation.
type Activity struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	Category    string // e.g. "billing", "tenant"
	Action      string // e.g. "subscription.renewed"
	Description string
	EntityType  string
	EntityId    uuid.UUID
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
