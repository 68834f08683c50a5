package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// TopicInvoiceSend is the in-process queue topic for outbound invoice mail.
const TopicInvoiceSend = "invoice.send"

type invoiceSendMessage struct {
	InvoiceId uuid.UUID `json:"invoice_id"`
	Email     string    `json:"email"`
}

// IMailDispatchService enqueues invoice emails for asynchronous delivery so
// request handlers and sweeps never block on SMTP.
type IMailDispatchService interface {
	DispatchInvoice(ctx context.Context, invoiceId uuid.UUID, email string) error
}

type mailDispatchService struct {
	publisher message.Publisher
}

func NewMailDispatchService(publisher message.Publisher) IMailDispatchService {
	return &mailDispatchService{publisher: publisher}
}

func (s *mailDispatchService) DispatchInvoice(ctx context.Context, invoiceId uuid.UUID, email string) error {
	payload, err := json.Marshal(invoiceSendMessage{InvoiceId: invoiceId, Email: email})
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)
	return s.publisher.Publish(TopicInvoiceSend, msg)
}
