package entity

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusOverdue  InvoiceStatus = "overdue"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

// Invoice is the billing document for one period of a subscription.
// TenantId is denormalized from the subscription for per-tenant listing.
// Sequence is globally unique and strictly increasing; Number is its
// display form and is never reused, even for voided invoices.
type Invoice struct {
	Id                 uuid.UUID
	TenantId           uuid.UUID
	SubscriptionId     uuid.UUID
	Number             string
	Sequence           int64
	Status             InvoiceStatus
	BillingPeriodStart time.Time
	BillingPeriodEnd   time.Time
	DueDate            time.Time
	PaidAt             *time.Time
	Amount             float64
	Subtotal           float64
	TaxRate            float64
	TaxAmount          float64
	Total              float64
	FilePath           string // generated PDF, rendered downstream

	// Send audit trail
	SentTo       string
	LastSentAt   *time.Time
	SendAttempts int
	SendError    *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []InvoiceItem
}

// InvoiceItem is one explicit line on an invoice.
type InvoiceItem struct {
	Id          uuid.UUID
	InvoiceId   uuid.UUID
	Description string
	Units       int
	UnitPrice   float64
	TaxRate     float64
	Amount      float64
}
