package mapper

import (
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/model"
)

type InvoiceMapper struct{}

func NewInvoiceMapper() *InvoiceMapper {
	return &InvoiceMapper{}
}

func (m *InvoiceMapper) ToEntity(i *model.Invoice) *entity.Invoice {
	if i == nil {
		return nil
	}
	return &entity.Invoice{
		Id:                 i.Id,
		TenantId:           i.TenantId,
		SubscriptionId:     i.SubscriptionId,
		Number:             i.Number,
		Sequence:           i.Sequence,
		Status:             entity.InvoiceStatus(i.Status),
		BillingPeriodStart: i.BillingPeriodStart,
		BillingPeriodEnd:   i.BillingPeriodEnd,
		DueDate:            i.DueDate,
		PaidAt:             i.PaidAt,
		Amount:             i.Amount,
		Subtotal:           i.Subtotal,
		TaxRate:            i.TaxRate,
		TaxAmount:          i.TaxAmount,
		Total:              i.Total,
		FilePath:           i.FilePath,
		SentTo:             i.SentTo,
		LastSentAt:         i.LastSentAt,
		SendAttempts:       i.SendAttempts,
		SendError:          i.SendError,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
		Items:              m.mapItemsToEntities(i.Items),
	}
}

func (m *InvoiceMapper) ToModel(i *entity.Invoice) *model.Invoice {
	if i == nil {
		return nil
	}
	return &model.Invoice{
		Id:                 i.Id,
		TenantId:           i.TenantId,
		SubscriptionId:     i.SubscriptionId,
		Number:             i.Number,
		Sequence:           i.Sequence,
		Status:             string(i.Status),
		BillingPeriodStart: i.BillingPeriodStart,
		BillingPeriodEnd:   i.BillingPeriodEnd,
		DueDate:            i.DueDate,
		PaidAt:             i.PaidAt,
		Amount:             i.Amount,
		Subtotal:           i.Subtotal,
		TaxRate:            i.TaxRate,
		TaxAmount:          i.TaxAmount,
		Total:              i.Total,
		FilePath:           i.FilePath,
		SentTo:             i.SentTo,
		LastSentAt:         i.LastSentAt,
		SendAttempts:       i.SendAttempts,
		SendError:          i.SendError,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
		Items:              m.mapItemsToModels(i.Items),
	}
}

func (m *InvoiceMapper) ItemToEntity(it *model.InvoiceItem) *entity.InvoiceItem {
	if it == nil {
		return nil
	}
	return &entity.InvoiceItem{
		Id:          it.Id,
		InvoiceId:   it.InvoiceId,
		Description: it.Description,
		Units:       it.Units,
		UnitPrice:   it.UnitPrice,
		TaxRate:     it.TaxRate,
		Amount:      it.Amount,
	}
}

func (m *InvoiceMapper) ItemToModel(it *entity.InvoiceItem) *model.InvoiceItem {
	if it == nil {
		return nil
	}
	return &model.InvoiceItem{
		Id:          it.Id,
		InvoiceId:   it.InvoiceId,
		Description: it.Description,
		Units:       it.Units,
		UnitPrice:   it.UnitPrice,
		TaxRate:     it.TaxRate,
		Amount:      it.Amount,
	}
}

func (m *InvoiceMapper) mapItemsToEntities(models []*model.InvoiceItem) []entity.InvoiceItem {
	if models == nil {
		return nil
	}
	entities := make([]entity.InvoiceItem, len(models))
	for i, mdl := range models {
		if val := m.ItemToEntity(mdl); val != nil {
			entities[i] = *val
		}
	}
	return entities
}

func (m *InvoiceMapper) mapItemsToModels(entities []entity.InvoiceItem) []*model.InvoiceItem {
	if entities == nil {
		return nil
	}
	models := make([]*model.InvoiceItem, len(entities))
	for i, ent := range entities {
		models[i] = m.ItemToModel(&ent)
	}
	return models
}
