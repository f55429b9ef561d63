package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	billingrepo "github.com/greentruckerlabs/greentrucker/internal/billing/repository"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	paymentrepo "github.com/greentruckerlabs/greentrucker/internal/payment/repository"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	pricingrepo "github.com/greentruckerlabs/greentrucker/internal/pricing/repository"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	wasterepo "github.com/greentruckerlabs/greentrucker/internal/waste/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&wastedomain.WasteCollection{},
		&wastedomain.WasteItem{},
		&pricingdomain.PricingEntry{},
		&paymentdomain.PaymentRecord{},
		&billingdomain.BillingRecord{},
		&events.NotificationEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:          db,
		log:         zap.NewNop(),
		genID:       node,
		clock:       clock.New(),
		cfg:         &config.Config{},
		outbox:      events.NewOutbox(db, node),
		repo:        billingrepo.Provide(),
		wasteRepo:   wasterepo.Provide(),
		pricingRepo: pricingrepo.Provide(),
		paymentRepo: paymentrepo.Provide(),
	}
	return svc, db, node
}

func seedPricing(t *testing.T, svc *Service, db *gorm.DB, node *snowflake.Node, item string, price float64) {
	t.Helper()
	entry := &pricingdomain.PricingEntry{
		ID:           node.Generate(),
		Item:         item,
		PricePerUnit: price,
	}
	require.NoError(t, svc.pricingRepo.Insert(context.Background(), db, entry))
}

func seedCollection(t *testing.T, svc *Service, db *gorm.DB, node *snowflake.Node, residentID string, items ...wastedomain.WasteItem) {
	t.Helper()
	record := &wastedomain.WasteCollection{
		ID:             node.Generate(),
		CollectionID:   "COL-" + node.Generate().String(),
		ResidentID:     residentID,
		CollectionDate: time.Now(),
		Status:         wastedomain.CollectionStatusCollected,
		Garbage:        items,
	}
	require.NoError(t, svc.wasteRepo.Insert(context.Background(), db, record))
}

func seedPayment(t *testing.T, svc *Service, db *gorm.DB, node *snowflake.Node, residentID string, amount float64) {
	t.Helper()
	record := &paymentdomain.PaymentRecord{
		ID:            node.Generate(),
		PaymentID:     "PAY-" + node.Generate().String(),
		CustomerID:    residentID,
		PaymentDate:   time.Now(),
		Amount:        amount,
		PaymentMethod: "cash",
		ReceiptNumber: "RCPT-seed",
	}
	require.NoError(t, svc.paymentRepo.Insert(context.Background(), db, record))
}

func TestSettleCreatesPaymentAndBilling(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	seedPricing(t, svc, db, node, "Hazardous", 10)
	seedCollection(t, svc, db, node, "res-1",
		item(t, wastedomain.WasteTypeNonRecyclable, "Hazardous", 5),
	)
	seedPayment(t, svc, db, node, "res-1", 20)

	result, err := svc.Settle(ctx, billingdomain.SettleRequest{
		ResidentID:    "res-1",
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	require.False(t, result.Replayed)

	assert.Equal(t, 30.0, result.Payment.Amount)
	assert.Equal(t, "card", result.Payment.PaymentMethod)
	assert.NotEmpty(t, result.Payment.ReceiptNumber)

	assert.Equal(t, 30.0, result.Billing.TotalPrice)
	assert.Equal(t, 50.0, result.Billing.GarbageCost)
	assert.Equal(t, billingdomain.PaymentStatusPaid, result.Billing.PaymentStatus)
	require.NotNil(t, result.Billing.PaymentRef)
	assert.Equal(t, result.Payment.PaymentID, *result.Billing.PaymentRef)

	statement, err := svc.StatementFor(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, statement.OutstandingBalance)

	var outboxRows []events.NotificationEvent
	require.NoError(t, db.Find(&outboxRows).Error)
	require.Len(t, outboxRows, 1)
	assert.Equal(t, events.EventPaymentSettled, outboxRows[0].EventType)
}

func TestSettleNothingOutstanding(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	seedPricing(t, svc, db, node, "Food Waste", 3)
	seedCollection(t, svc, db, node, "res-1",
		item(t, wastedomain.WasteTypeNonRecyclable, "Food Waste", 4),
	)
	seedPayment(t, svc, db, node, "res-1", 20)

	_, err := svc.Settle(ctx, billingdomain.SettleRequest{
		ResidentID:    "res-1",
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, billingdomain.ErrNothingOutstanding)

	var count int64
	require.NoError(t, db.Model(&billingdomain.BillingRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSettleSecondAttemptFindsNothingOutstanding(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	seedPricing(t, svc, db, node, "Other", 5)
	seedCollection(t, svc, db, node, "res-1",
		item(t, wastedomain.WasteTypeNonRecyclable, "Other", 2),
	)

	_, err := svc.Settle(ctx, billingdomain.SettleRequest{
		ResidentID:    "res-1",
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, billingdomain.SettleRequest{
		ResidentID:    "res-1",
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, billingdomain.ErrNothingOutstanding)

	var payments int64
	require.NoError(t, db.Model(&paymentdomain.PaymentRecord{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
}

func TestSettleIdempotencyKeyReplays(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	seedPricing(t, svc, db, node, "Organic", 4)
	seedCollection(t, svc, db, node, "res-1",
		item(t, wastedomain.WasteTypeNonRecyclable, "Organic", 3),
	)

	req := billingdomain.SettleRequest{
		ResidentID:     "res-1",
		PaymentMethod:  "card",
		IdempotencyKey: "settle-res-1-2026-08",
	}

	first, err := svc.Settle(ctx, req)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := svc.Settle(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.PaymentID, second.Payment.PaymentID)
	require.NotNil(t, second.Billing)
	assert.Equal(t, first.Billing.BillingID, second.Billing.BillingID)

	var payments int64
	require.NoError(t, db.Model(&paymentdomain.PaymentRecord{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
}

func TestIdempotencyKeyUniqueInStorage(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	key := "settle-res-1-2026-08"
	first := &paymentdomain.PaymentRecord{
		ID:             node.Generate(),
		PaymentID:      "PAY-first",
		CustomerID:     "res-1",
		PaymentDate:    time.Now(),
		Amount:         12,
		PaymentMethod:  "card",
		ReceiptNumber:  "RCPT-first",
		IdempotencyKey: &key,
	}
	require.NoError(t, svc.paymentRepo.Insert(ctx, db, first))

	dup := key
	second := &paymentdomain.PaymentRecord{
		ID:             node.Generate(),
		PaymentID:      "PAY-second",
		CustomerID:     "res-1",
		PaymentDate:    time.Now(),
		Amount:         12,
		PaymentMethod:  "card",
		ReceiptNumber:  "RCPT-second",
		IdempotencyKey: &dup,
	}
	assert.Error(t, svc.paymentRepo.Insert(ctx, db, second))
}

func TestSettleValidatesRequest(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Settle(ctx, billingdomain.SettleRequest{PaymentMethod: "card"})
	assert.ErrorIs(t, err, billingdomain.ErrMissingResident)

	_, err = svc.Settle(ctx, billingdomain.SettleRequest{ResidentID: "res-1"})
	assert.ErrorIs(t, err, billingdomain.ErrMissingMethod)
}
