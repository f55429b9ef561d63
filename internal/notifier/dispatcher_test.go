package notifier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type captureMailer struct {
	sent []string
	err  error
}

func (m *captureMailer) Send(_ context.Context, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestDispatcher(t *testing.T, mailer Mailer) (*Dispatcher, *events.Outbox, *gorm.DB, *redis.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&events.NotificationEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	outbox := events.NewOutbox(db, node)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	d := NewDispatcher(DispatcherParam{
		Outbox: outbox,
		Mailer: mailer,
		Redis:  rdb,
		Log:    zap.NewNop(),
	})
	return d, outbox, db, rdb
}

func scheduleEvent(email string) events.Event {
	return events.Event{
		Type: events.EventScheduleRequested,
		Payload: events.SchedulePayload{
			RequestID:    "REQ-1",
			CustomerName: "Ayu Lestari",
			Category:     "Organic",
			ScheduleDate: "2026-09-03",
			Location:     "Jl. Melati 12",
			Email:        email,
			Status:       "Pending",
		}.ToMap(),
	}
}

func TestRunOnceDeliversAndMarksSent(t *testing.T) {
	mailer := &captureMailer{}
	d, outbox, db, _ := newTestDispatcher(t, mailer)
	ctx := context.Background()

	require.NoError(t, outbox.Publish(ctx, scheduleEvent("ayu@example.com")))
	require.NoError(t, d.RunOnce(ctx))

	assert.Equal(t, []string{"ayu@example.com"}, mailer.sent)

	var row events.NotificationEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, events.StatusSent, row.Status)
	assert.NotNil(t, row.SentAt)
}

func TestRunOnceMarksFailedDeliveries(t *testing.T) {
	mailer := &captureMailer{err: errors.New("relay refused")}
	d, outbox, db, _ := newTestDispatcher(t, mailer)
	ctx := context.Background()

	require.NoError(t, outbox.Publish(ctx, scheduleEvent("ayu@example.com")))
	require.NoError(t, d.RunOnce(ctx))

	var row events.NotificationEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, events.StatusPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	require.NotNil(t, row.LastError)
	assert.Contains(t, *row.LastError, "relay refused")
}

func TestRunOnceExhaustsAttempts(t *testing.T) {
	mailer := &captureMailer{err: errors.New("relay refused")}
	d, outbox, db, _ := newTestDispatcher(t, mailer)
	ctx := context.Background()

	require.NoError(t, outbox.Publish(ctx, scheduleEvent("ayu@example.com")))
	for i := 0; i < maxAttempts; i++ {
		require.NoError(t, d.RunOnce(ctx))
	}

	var row events.NotificationEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, events.StatusFailed, row.Status)
	assert.Equal(t, maxAttempts, row.Attempts)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	mailer := &captureMailer{}
	d, outbox, _, rdb := newTestDispatcher(t, mailer)
	ctx := context.Background()

	require.NoError(t, outbox.Publish(ctx, scheduleEvent("ayu@example.com")))
	require.NoError(t, rdb.SetNX(ctx, lockKey, "other", lockTTL).Err())

	require.NoError(t, d.RunOnce(ctx))
	assert.Empty(t, mailer.sent)
}

func TestDeliverAcknowledgesSettlementEvents(t *testing.T) {
	mailer := &captureMailer{}
	d, outbox, db, _ := newTestDispatcher(t, mailer)
	ctx := context.Background()

	require.NoError(t, outbox.Publish(ctx, events.Event{
		Type: events.EventPaymentSettled,
		Payload: events.SettlementPayload{
			ResidentID: "res-1",
			PaymentID:  "PAY-1",
			Amount:     30,
		}.ToMap(),
	}))
	require.NoError(t, d.RunOnce(ctx))

	var row events.NotificationEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, events.StatusSent, row.Status)
	assert.Empty(t, mailer.sent)
}
