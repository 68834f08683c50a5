package service

import (
	"context"
	"fmt"
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/pkg/serverutils"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/pkg/billing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// periodMatchTolerance pads the period-end idempotency probe so that an
// invoice generated milliseconds apart from a recomputed boundary still
// counts as covering that period.
const periodMatchTolerance = time.Hour

type IInvoiceService interface {
	// GenerateForSubscription creates one invoice per monthly billing period
	// between from and to. Periods already covered by a non-canceled invoice
	// are skipped. The caller owns the transaction on uow.
	GenerateForSubscription(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, plan *entity.Plan, from, to time.Time) ([]*entity.Invoice, error)

	// ReconcileForSubscription voids invoices whose period fell outside the
	// subscription's current window and generates any newly uncovered
	// periods. The caller owns the transaction on uow.
	ReconcileForSubscription(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, plan *entity.Plan) error

	ListForTenant(ctx context.Context, tenantId uuid.UUID, limit, offset int) ([]*dto.InvoiceResponse, error)
	GetForTenant(ctx context.Context, tenantId, invoiceId uuid.UUID) (*dto.InvoiceResponse, error)
	Send(ctx context.Context, tenantId, invoiceId uuid.UUID, overrideEmail string) error
}

type invoiceService struct {
	uowFactory     unitofwork.RepositoryFactory
	mailDispatch   IMailDispatchService
	log            logger.ILogger
	taxRatePercent float64
}

func NewInvoiceService(
	uowFactory unitofwork.RepositoryFactory,
	mailDispatch IMailDispatchService,
	log logger.ILogger,
	taxRatePercent float64,
) IInvoiceService {
	return &invoiceService{
		uowFactory:     uowFactory,
		mailDispatch:   mailDispatch,
		log:            log,
		taxRatePercent: taxRatePercent,
	}
}

func invoiceNumber(sequence int64) string {
	return fmt.Sprintf("INV-%06d", sequence)
}

func (s *invoiceService) GenerateForSubscription(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, plan *entity.Plan, from, to time.Time) ([]*entity.Invoice, error) {
	// Only stored-active subscriptions are billed. Effective status is not
	// consulted here: a subscription that drifted past ends_at but was never
	// transitioned still gets its owed invoices.
	if sub.Status != entity.SubscriptionStatusActive {
		return nil, nil
	}

	var created []*entity.Invoice
	for _, period := range billing.Periods(from, to) {
		existing, err := uow.InvoiceRepository().FindOne(ctx,
			specification.FilterBy{Field: "subscription_id", Value: sub.Id},
			specification.PeriodEndWithin{
				From: period.End.Add(-periodMatchTolerance),
				To:   period.End.Add(periodMatchTolerance),
			},
			specification.StatusNot{Status: string(entity.InvoiceStatusCanceled)},
		)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		invoice, err := s.buildInvoice(ctx, uow, sub, plan, period)
		if err != nil {
			return nil, err
		}
		if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
			return nil, err
		}
		created = append(created, invoice)
	}
	return created, nil
}

func (s *invoiceService) buildInvoice(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, plan *entity.Plan, period billing.Period) (*entity.Invoice, error) {
	sequence, err := uow.InvoiceRepository().NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := billing.Round2(sub.Price)
	taxAmount := billing.TaxAmount(subtotal, s.taxRatePercent)
	total := billing.Round2(subtotal + taxAmount)

	invoiceId := uuid.New()
	now := time.Now()

	// Settlement is recorded at generation time. Collection happens out of
	// band; see the renewal flow for the gateway charge.
	paidAt := period.End

	return &entity.Invoice{
		Id:                 invoiceId,
		TenantId:           sub.TenantId,
		SubscriptionId:     sub.Id,
		Number:             invoiceNumber(sequence),
		Sequence:           sequence,
		Status:             entity.InvoiceStatusPaid,
		BillingPeriodStart: period.Start,
		BillingPeriodEnd:   period.End,
		DueDate:            period.DueDate,
		PaidAt:             &paidAt,
		Amount:             subtotal,
		Subtotal:           subtotal,
		TaxRate:            s.taxRatePercent,
		TaxAmount:          taxAmount,
		Total:              total,
		CreatedAt:          now,
		UpdatedAt:          now,
		Items: []entity.InvoiceItem{
			{
				Id:          uuid.New(),
				InvoiceId:   invoiceId,
				Description: fmt.Sprintf("%s subscription (%s to %s)", plan.Name, period.Start.Format("2 Jan 2006"), period.End.Format("2 Jan 2006")),
				Units:       1,
				UnitPrice:   subtotal,
				TaxRate:     s.taxRatePercent,
				Amount:      subtotal,
			},
		},
	}, nil
}

func (s *invoiceService) ReconcileForSubscription(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, plan *entity.Plan) error {
	if sub.EndsAt == nil {
		return nil
	}

	invoices, err := uow.InvoiceRepository().FindAll(ctx,
		specification.FilterBy{Field: "subscription_id", Value: sub.Id},
		specification.StatusNot{Status: string(entity.InvoiceStatusCanceled)},
	)
	if err != nil {
		return err
	}

	// Void what no longer matches the subscription: periods outside the
	// current window, and invoices billed at a stale price snapshot. Numbers
	// stay burned; a voided invoice keeps its sequence forever.
	currentSubtotal := billing.Round2(sub.Price)
	for _, invoice := range invoices {
		stale := invoice.BillingPeriodEnd.After(sub.EndsAt.Add(periodMatchTolerance)) ||
			invoice.BillingPeriodStart.Before(sub.StartsAt.Add(-periodMatchTolerance)) ||
			invoice.Subtotal != currentSubtotal
		if !stale {
			continue
		}
		invoice.Status = entity.InvoiceStatusCanceled
		invoice.UpdatedAt = time.Now()
		if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
			return err
		}
		s.log.Info("invoice", "Voided out-of-window invoice", map[string]interface{}{
			"invoice_number":  invoice.Number,
			"subscription_id": sub.Id,
		})
	}

	_, err = s.GenerateForSubscription(ctx, uow, sub, plan, sub.StartsAt, *sub.EndsAt)
	return err
}

func (s *invoiceService) ListForTenant(ctx context.Context, tenantId uuid.UUID, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoices, err := uow.InvoiceRepository().FindAll(ctx,
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.OrderBy{Field: "sequence", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	return dto.ToInvoiceResponses(invoices), nil
}

func (s *invoiceService) GetForTenant(ctx context.Context, tenantId, invoiceId uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := uow.InvoiceRepository().FindOne(ctx,
		specification.ByID{ID: invoiceId},
		specification.TenantOwnedBy{TenantID: tenantId},
	)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Invoice not found")
	}
	return dto.ToInvoiceResponse(invoice), nil
}

func (s *invoiceService) Send(ctx context.Context, tenantId, invoiceId uuid.UUID, overrideEmail string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := uow.InvoiceRepository().FindOne(ctx,
		specification.ByID{ID: invoiceId},
		specification.TenantOwnedBy{TenantID: tenantId},
	)
	if err != nil {
		return err
	}
	if invoice == nil {
		return serverutils.NewApiError(fiber.StatusNotFound, "Invoice not found")
	}

	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: tenantId})
	if err != nil {
		return err
	}
	if tenant == nil {
		return serverutils.NewApiError(fiber.StatusNotFound, "Tenant not found")
	}

	email := tenant.ContactEmail
	if overrideEmail != "" {
		email = overrideEmail
	}

	return s.mailDispatch.DispatchInvoice(ctx, invoice.Id, email)
}
