package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The composite unique index on (subscription_id, billing_period_end) is the
// hard guard against double generation; the application-level existence check
// only short-circuits the common case.
type Invoice struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId           uuid.UUID `gorm:"type:uuid;not null;index"`
	SubscriptionId     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_sub_period,priority:1"`
	Number             string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Sequence           int64     `gorm:"uniqueIndex;not null"`
	Status             string    `gorm:"type:varchar(20);not null;index"`
	BillingPeriodStart time.Time `gorm:"not null"`
	BillingPeriodEnd   time.Time `gorm:"not null;uniqueIndex:idx_invoices_sub_period,priority:2"`
	DueDate            time.Time `gorm:"not null"`
	PaidAt             *time.Time
	Amount             float64 `gorm:"type:decimal(10,2);not null"`
	Subtotal           float64 `gorm:"type:decimal(10,2);not null"`
	TaxRate            float64 `gorm:"type:decimal(5,2);default:0"`
	TaxAmount          float64 `gorm:"type:decimal(10,2);default:0"`
	Total              float64 `gorm:"type:decimal(10,2);not null"`
	FilePath           string  `gorm:"type:varchar(512)"`

	SentTo       string `gorm:"type:varchar(255)"`
	LastSentAt   *time.Time
	SendAttempts int     `gorm:"default:0"`
	SendError    *string `gorm:"type:text"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Items []*InvoiceItem `gorm:"foreignKey:InvoiceId"`
}

func (Invoice) TableName() string {
	return "invoices"
}

type InvoiceItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:varchar(512);not null"`
	Units       int       `gorm:"default:1"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null"`
	TaxRate     float64   `gorm:"type:decimal(5,2);default:0"`
	Amount      float64   `gorm:"type:decimal(10,2);not null"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
