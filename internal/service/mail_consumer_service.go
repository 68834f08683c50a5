package service

import (
	"context"
	"encoding/json"
	"time"

	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/pkg/mailer"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IMailConsumerService drains the invoice mail queue and records the send
// audit trail on each invoice.
type IMailConsumerService interface {
	Start(ctx context.Context) error
}

type mailConsumerService struct {
	subscriber message.Subscriber
	uowFactory unitofwork.RepositoryFactory
	emails     mailer.IEmailService
	log        logger.ILogger
}

func NewMailConsumerService(
	subscriber message.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	emails mailer.IEmailService,
	log logger.ILogger,
) IMailConsumerService {
	return &mailConsumerService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		emails:     emails,
		log:        log,
	}
}

func (s *mailConsumerService) Start(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, TopicInvoiceSend)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.handle(ctx, msg)
			msg.Ack()
		}
	}()
	return nil
}

func (s *mailConsumerService) handle(ctx context.Context, msg *message.Message) {
	var payload invoiceSendMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("mail", "Malformed invoice send message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: payload.InvoiceId})
	if err != nil || invoice == nil {
		s.log.Error("mail", "Invoice lookup failed for send", map[string]interface{}{
			"invoice_id": payload.InvoiceId,
		})
		return
	}

	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: invoice.TenantId})
	if err != nil || tenant == nil {
		s.log.Error("mail", "Tenant lookup failed for send", map[string]interface{}{
			"invoice_id": payload.InvoiceId,
			"tenant_id":  invoice.TenantId,
		})
		return
	}

	sendErr := s.emails.SendInvoice(payload.Email, tenant.Name, invoice)

	now := time.Now()
	invoice.SentTo = payload.Email
	invoice.LastSentAt = &now
	invoice.SendAttempts++
	invoice.SendError = nil
	if sendErr != nil {
		errMsg := sendErr.Error()
		invoice.SendError = &errMsg
	}
	invoice.UpdatedAt = now

	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		s.log.Error("mail", "Failed to record send attempt", map[string]interface{}{
			"invoice_number": invoice.Number,
			"error":          err.Error(),
		})
		return
	}

	if sendErr != nil {
		s.log.Warn("mail", "Invoice email failed", map[string]interface{}{
			"invoice_number": invoice.Number,
			"email":          payload.Email,
			"error":          sendErr.Error(),
		})
		return
	}

	s.log.Info("mail", "Invoice email sent", map[string]interface{}{
		"invoice_number": invoice.Number,
		"email":          payload.Email,
	})
}
