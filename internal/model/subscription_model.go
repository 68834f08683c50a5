package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscriptions are soft-deleted only; historical rows stay for audit.
type Subscription struct {
	Id                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId            uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanId              uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status              string     `gorm:"type:varchar(50);not null;index"`
	Price               float64    `gorm:"type:decimal(10,2);not null"`
	AutoRenew           bool       `gorm:"default:false"`
	StartsAt            time.Time  `gorm:"not null"`
	EndsAt              *time.Time `gorm:"index"`
	TrialEndsAt         *time.Time
	RenewedAt           *time.Time
	CanceledAt          *time.Time
	LastPaymentAt       *time.Time
	NextPaymentAt       *time.Time
	ConsecutiveFailures int            `gorm:"default:0"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
