package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a school account, the unit of data isolation.
type Tenant struct {
	Id           uuid.UUID
	Name         string
	Slug         string
	ContactEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
