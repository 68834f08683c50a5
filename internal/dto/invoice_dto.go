package dto

import (
	"time"

	"school-mgmt-be/internal/entity"

	"github.com/google/uuid"
)

type InvoiceItemResponse struct {
	Id          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Units       int       `json:"units"`
	UnitPrice   float64   `json:"unit_price"`
	TaxRate     float64   `json:"tax_rate"`
	Amount      float64   `json:"amount"`
}

type InvoiceResponse struct {
	Id                 uuid.UUID              `json:"id"`
	TenantId           uuid.UUID              `json:"tenant_id"`
	SubscriptionId     uuid.UUID              `json:"subscription_id"`
	Number             string                 `json:"number"`
	Status             string                 `json:"status"`
	BillingPeriodStart time.Time              `json:"billing_period_start"`
	BillingPeriodEnd   time.Time              `json:"billing_period_end"`
	DueDate            time.Time              `json:"due_date"`
	PaidAt             *time.Time             `json:"paid_at,omitempty"`
	Subtotal           float64                `json:"subtotal"`
	TaxRate            float64                `json:"tax_rate"`
	TaxAmount          float64                `json:"tax_amount"`
	Total              float64                `json:"total"`
	Items              []*InvoiceItemResponse `json:"items"`
}

type SendInvoiceRequest struct {
	// Email overrides the tenant contact address when set.
	Email string `json:"email" validate:"omitempty,email"`
}

func ToInvoiceItemResponse(item *entity.InvoiceItem) *InvoiceItemResponse {
	return &InvoiceItemResponse{
		Id:          item.Id,
		Description: item.Description,
		Units:       item.Units,
		UnitPrice:   item.UnitPrice,
		TaxRate:     item.TaxRate,
		Amount:      item.Amount,
	}
}

func ToInvoiceResponse(invoice *entity.Invoice) *InvoiceResponse {
	if invoice == nil {
		return nil
	}
	items := make([]*InvoiceItemResponse, 0, len(invoice.Items))
	for i := range invoice.Items {
		items = append(items, ToInvoiceItemResponse(&invoice.Items[i]))
	}
	return &InvoiceResponse{
		Id:                 invoice.Id,
		TenantId:           invoice.TenantId,
		SubscriptionId:     invoice.SubscriptionId,
		Number:             invoice.Number,
		Status:             string(invoice.Status),
		BillingPeriodStart: invoice.BillingPeriodStart,
		BillingPeriodEnd:   invoice.BillingPeriodEnd,
		DueDate:            invoice.DueDate,
		PaidAt:             invoice.PaidAt,
		Subtotal:           invoice.Subtotal,
		TaxRate:            invoice.TaxRate,
		TaxAmount:          invoice.TaxAmount,
		Total:              invoice.Total,
		Items:              items,
	}
}

func ToInvoiceResponses(invoices []*entity.Invoice) []*InvoiceResponse {
	responses := make([]*InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responses = append(responses, ToInvoiceResponse(invoice))
	}
	return responses
}
