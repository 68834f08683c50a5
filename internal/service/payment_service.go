package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/pkg/billing"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

const gatewayCallTimeout = 15 * time.Second

// PaymentIntent is a charge opened at the gateway, pending capture.
type PaymentIntent struct {
	OrderId       string
	TransactionId string
	Status        string // settlement, capture, pending, deny, expire
}

func (i *PaymentIntent) Settled() bool {
	return i.Status == "settlement" || i.Status == "capture"
}

type IPaymentService interface {
	// CreatePaymentIntent opens a charge for one renewal. Amount is sent to
	// the gateway as integer minor units.
	CreatePaymentIntent(ctx context.Context, sub *entity.Subscription, plan *entity.Plan, amount float64) (*PaymentIntent, error)

	// ProcessPayment checks whether the intent's money actually arrived.
	ProcessPayment(ctx context.Context, orderId string) (bool, error)

	// HandleNotification processes an asynchronous gateway notification.
	HandleNotification(ctx context.Context, req *dto.MidtransNotification) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	log            logger.ILogger
	client         coreapi.Client
	serverKey      string
	taxRatePercent float64
	enabled        bool
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	serverKey string,
	taxRatePercent float64,
	enabled bool,
	production bool,
) IPaymentService {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client coreapi.Client
	client.New(serverKey, env)

	return &paymentService{
		uowFactory:     uowFactory,
		log:            log,
		client:         client,
		serverKey:      serverKey,
		taxRatePercent: taxRatePercent,
		enabled:        enabled,
	}
}

// chargeAmount converts the subtotal to the gateway's integer minor units,
// tax included, so the charge matches the invoice total for the same period.
func (s *paymentService) chargeAmount(amount float64) int64 {
	total := billing.Round2(amount + billing.TaxAmount(amount, s.taxRatePercent))
	return billing.MinorUnits(total)
}

// renewalOrderId builds a gateway order id that round-trips the subscription
// id. Format: REN-<uuid>-<unix>.
func renewalOrderId(subId uuid.UUID, now time.Time) string {
	return fmt.Sprintf("REN-%s-%d", subId, now.Unix())
}

func subscriptionIdFromOrderId(orderId string) (uuid.UUID, error) {
	trimmed := strings.TrimPrefix(orderId, "REN-")
	if trimmed == orderId {
		return uuid.Nil, fmt.Errorf("unrecognized order id format: %s", orderId)
	}
	idx := strings.LastIndex(trimmed, "-")
	if idx < 0 {
		return uuid.Nil, fmt.Errorf("unrecognized order id format: %s", orderId)
	}
	return uuid.Parse(trimmed[:idx])
}

// callGateway runs fn off the calling goroutine and enforces the ctx deadline.
// The midtrans client has no context support of its own.
func callGateway[T any](ctx context.Context, fn func() (T, *midtrans.Error)) (T, error) {
	type result struct {
		value T
		err   *midtrans.Error
	}

	ctx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()

	resultCh := make(chan result, 1)
	go func() {
		value, err := fn()
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("gateway call timed out: %w", ctx.Err())
	case r := <-resultCh:
		if r.err != nil {
			var zero T
			return zero, fmt.Errorf("gateway call failed: %v", r.err.GetMessage())
		}
		return r.value, nil
	}
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, sub *entity.Subscription, plan *entity.Plan, amount float64) (*PaymentIntent, error) {
	orderId := renewalOrderId(sub.Id, time.Now())

	// Gateway disabled: intents settle immediately. Used in development and
	// until online payment goes live.
	if !s.enabled {
		s.log.Debug("payment", "Gateway disabled, settling intent locally", map[string]interface{}{
			"order_id": orderId,
			"amount":   amount,
		})
		return &PaymentIntent{
			OrderId:       orderId,
			TransactionId: uuid.NewString(),
			Status:        "settlement",
		}, nil
	}

	grossAmount := s.chargeAmount(amount)
	chargeReq := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeBankTransfer,
		BankTransfer: &coreapi.BankTransferDetails{
			Bank: midtrans.BankBca,
		},
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: grossAmount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: grossAmount,
				Qty:   1,
				Name:  fmt.Sprintf("%s renewal", plan.Name),
			},
		},
	}

	resp, err := callGateway(ctx, func() (*coreapi.ChargeResponse, *midtrans.Error) {
		return s.client.ChargeTransaction(chargeReq)
	})
	if err != nil {
		return nil, fmt.Errorf("charge for order %s: %w", orderId, err)
	}

	return &PaymentIntent{
		OrderId:       orderId,
		TransactionId: resp.TransactionID,
		Status:        resp.TransactionStatus,
	}, nil
}

func (s *paymentService) ProcessPayment(ctx context.Context, orderId string) (bool, error) {
	if !s.enabled {
		return true, nil
	}

	resp, err := callGateway(ctx, func() (*coreapi.TransactionStatusResponse, *midtrans.Error) {
		return s.client.CheckTransaction(orderId)
	})
	if err != nil {
		return false, fmt.Errorf("status check for order %s: %w", orderId, err)
	}

	intent := PaymentIntent{Status: resp.TransactionStatus}
	return intent.Settled(), nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransNotification) error {
	if !s.verifySignature(req) {
		s.log.Warn("payment", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return fmt.Errorf("invalid signature")
	}

	subId, err := subscriptionIdFromOrderId(req.OrderId)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subId})
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription %s not found for order %s", subId, req.OrderId)
	}

	now := time.Now()
	switch req.TransactionStatus {
	case "capture", "settlement":
		sub.LastPaymentAt = &now
		sub.ConsecutiveFailures = 0
	case "deny", "cancel", "expire", "failure":
		sub.ConsecutiveFailures++
		if sub.ConsecutiveFailures >= MaxConsecutiveFailures {
			sub.AutoRenew = false
		}
	default:
		// pending and other intermediate states carry no state change
		return uow.Commit()
	}
	sub.UpdatedAt = now

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	activity := &entity.Activity{
		Id:          uuid.New(),
		TenantId:    sub.TenantId,
		Category:    "billing",
		Action:      "payment." + req.TransactionStatus,
		Description: fmt.Sprintf("Gateway notification %s for order %s", req.TransactionStatus, req.OrderId),
		EntityType:  "subscription",
		EntityId:    sub.Id,
		Metadata: map[string]interface{}{
			"order_id":       req.OrderId,
			"transaction_id": req.TransactionId,
			"payment_type":   req.PaymentType,
			"gross_amount":   req.GrossAmount,
		},
		CreatedAt: now,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("payment", "Webhook processed", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})
	return nil
}

// verifySignature checks SHA512(order_id + status_code + gross_amount +
// server_key) against the notification's signature key.
func (s *paymentService) verifySignature(req *dto.MidtransNotification) bool {
	input := req.OrderId + req.StatusCode + req.GrossAmount + s.serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(req.SignatureKey)) == 1
}
