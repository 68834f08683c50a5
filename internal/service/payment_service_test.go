package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"
	"time"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenewalOrderIdRoundTrips(t *testing.T) {
	subId := uuid.New()
	orderId := renewalOrderId(subId, time.Now())

	parsed, err := subscriptionIdFromOrderId(orderId)
	require.NoError(t, err)
	assert.Equal(t, subId, parsed)
}

func TestSubscriptionIdFromOrderIdRejectsGarbage(t *testing.T) {
	for _, orderId := range []string{"", "abc", "REN-", "REN-notauuid-123", uuid.NewString()} {
		_, err := subscriptionIdFromOrderId(orderId)
		assert.Error(t, err, "order id %q", orderId)
	}
}

func TestPaymentIntentSettled(t *testing.T) {
	assert.True(t, (&PaymentIntent{Status: "settlement"}).Settled())
	assert.True(t, (&PaymentIntent{Status: "capture"}).Settled())
	assert.False(t, (&PaymentIntent{Status: "pending"}).Settled())
	assert.False(t, (&PaymentIntent{Status: "deny"}).Settled())
}

func TestChargeAmountSendsTaxedMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		taxRate float64
		amount  float64
		want    int64
	}{
		{"no tax keeps cents", 0, 29.99, 2999},
		{"tax included", 10, 29.99, 3299},
		{"round amount", 10, 100, 11000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPaymentService(newFakeFactory(), noopLogger{}, "server-key", tt.taxRate, false, false).(*paymentService)
			assert.Equal(t, tt.want, svc.chargeAmount(tt.amount))
		})
	}
}

func signNotification(req *dto.MidtransNotification, serverKey string) {
	input := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	req.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	factory := newFakeFactory()
	svc := NewPaymentService(factory, noopLogger{}, "server-key", 0, false, false)

	req := &dto.MidtransNotification{
		OrderId:           "REN-" + uuid.NewString() + "-1",
		StatusCode:        "200",
		GrossAmount:       "100.00",
		TransactionStatus: "settlement",
		SignatureKey:      "forged",
	}
	err := svc.HandleNotification(context.Background(), req)
	assert.EqualError(t, err, "invalid signature")
}

func TestHandleNotificationSettlementStampsPayment(t *testing.T) {
	factory := newFakeFactory()
	svc := NewPaymentService(factory, noopLogger{}, "server-key", 0, false, false)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 10))
	sub.ConsecutiveFailures = 2
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.SubscriptionRepository().Create(ctx, sub))

	req := &dto.MidtransNotification{
		OrderId:           renewalOrderId(sub.Id, now),
		StatusCode:        "200",
		GrossAmount:       "100.00",
		TransactionStatus: "settlement",
		TransactionId:     uuid.NewString(),
	}
	signNotification(req, "server-key")

	require.NoError(t, svc.HandleNotification(ctx, req))

	updated, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
	require.NoError(t, err)
	assert.NotNil(t, updated.LastPaymentAt)
	assert.Zero(t, updated.ConsecutiveFailures)
}

func TestHandleNotificationFailureEscalates(t *testing.T) {
	factory := newFakeFactory()
	svc := NewPaymentService(factory, noopLogger{}, "server-key", 0, false, false)
	ctx := context.Background()

	now := time.Now()
	sub := activeSub(now.AddDate(0, -1, 0), now.AddDate(0, 0, 10))
	sub.ConsecutiveFailures = MaxConsecutiveFailures - 1
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.SubscriptionRepository().Create(ctx, sub))

	req := &dto.MidtransNotification{
		OrderId:           renewalOrderId(sub.Id, now),
		StatusCode:        "202",
		GrossAmount:       "100.00",
		TransactionStatus: "deny",
		TransactionId:     uuid.NewString(),
	}
	signNotification(req, "server-key")

	require.NoError(t, svc.HandleNotification(ctx, req))

	updated, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
	require.NoError(t, err)
	assert.Equal(t, MaxConsecutiveFailures, updated.ConsecutiveFailures)
	assert.False(t, updated.AutoRenew)
}
