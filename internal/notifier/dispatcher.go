package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/greentruckerlabs/greentrucker/internal/events"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	lockKey     = "greentrucker:notifier:lock"
	lockTTL     = 30 * time.Second
	batchSize   = 50
	maxAttempts = 5
)

// Dispatcher polls the notification outbox and hands each pending event to
// the mailer. A redis lock keeps concurrent replicas from double-sending.
type Dispatcher struct {
	outbox *events.Outbox
	mailer Mailer
	rdb    *redis.Client
	log    *zap.Logger

	interval time.Duration
}

type DispatcherParam struct {
	fx.In

	Outbox *events.Outbox
	Mailer Mailer
	Redis  *redis.Client `optional:"true"`
	Log    *zap.Logger
}

func NewDispatcher(p DispatcherParam) *Dispatcher {
	return &Dispatcher{
		outbox:   p.Outbox,
		mailer:   p.Mailer,
		rdb:      p.Redis,
		log:      p.Log.Named("notifier.dispatcher"),
		interval: 15 * time.Second,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if err := d.RunOnce(ctx); err != nil {
			d.log.Warn("outbox drain failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce drains one batch of pending events. Returns nil when another
// replica holds the lock.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	release, acquired, err := d.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}
	defer release()

	pending, err := d.outbox.Pending(ctx, batchSize)
	if err != nil {
		return err
	}
	for _, event := range pending {
		if err := d.deliver(ctx, event); err != nil {
			d.log.Warn("notification delivery failed",
				zap.String("event_id", event.ID.String()),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			if markErr := d.outbox.MarkFailed(ctx, event.ID, err, maxAttempts); markErr != nil {
				return markErr
			}
			continue
		}
		if err := d.outbox.MarkSent(ctx, event.ID); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) acquireLock(ctx context.Context) (func(), bool, error) {
	if d.rdb == nil {
		return func() {}, true, nil
	}
	ok, err := d.rdb.SetNX(ctx, lockKey, "1", lockTTL).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		if err := d.rdb.Del(context.Background(), lockKey).Err(); err != nil {
			d.log.Warn("failed to release notifier lock", zap.Error(err))
		}
	}
	return release, true, nil
}

func (d *Dispatcher) deliver(ctx context.Context, event events.NotificationEvent) error {
	switch event.EventType {
	case events.EventScheduleRequested:
		return d.sendScheduleMail(ctx, event, "Pickup request received",
			"We received your pickup request for %s on %s at %s. Current status: %s.")
	case events.EventScheduleUpdated:
		return d.sendScheduleMail(ctx, event, "Pickup request updated",
			"Your pickup request for %s on %s at %s is now %s.")
	case events.EventPaymentSettled:
		// Settlement events have no recipient address; they exist for
		// downstream consumers. Log and acknowledge.
		d.log.Info("payment settled",
			zap.Any("resident_id", event.Payload["resident_id"]),
			zap.Any("payment_id", event.Payload["payment_id"]),
			zap.Any("amount", event.Payload["amount"]),
		)
		return nil
	default:
		d.log.Warn("unknown notification event type, acknowledging",
			zap.String("event_type", event.EventType))
		return nil
	}
}

func (d *Dispatcher) sendScheduleMail(ctx context.Context, event events.NotificationEvent, subject, format string) error {
	email, _ := event.Payload["email"].(string)
	if email == "" {
		return fmt.Errorf("event %s has no recipient email", event.ID)
	}
	category, _ := event.Payload["category"].(string)
	date, _ := event.Payload["schedule_date"].(string)
	location, _ := event.Payload["location"].(string)
	status, _ := event.Payload["status"].(string)

	name, _ := event.Payload["customer_name"].(string)
	body := fmt.Sprintf("Hello %s,\n\n", name) +
		fmt.Sprintf(format, category, date, location, status) +
		"\n\nGreenTrucker Waste Management"
	return d.mailer.Send(ctx, email, subject, body)
}
