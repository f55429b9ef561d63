package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// NotificationEvent is one row of the notification outbox. Domain services
// insert rows inside their own transactions; the dispatcher drains them.
type NotificationEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	EventType string            `gorm:"type:text;not null"`
	Payload   datatypes.JSONMap `gorm:"not null"`
	DedupeKey *string           `gorm:"type:text;uniqueIndex"`
	Status    string            `gorm:"type:text;not null;default:pending"`
	Attempts  int               `gorm:"not null;default:0"`
	LastError *string           `gorm:"type:text"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	SentAt    *time.Time
}

func (NotificationEvent) TableName() string { return "notification_events" }

// Event describes a notification to store in the outbox.
type Event struct {
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// Outbox inserts notification events into the notification_events table.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event using an existing transaction, so the event is
// written or discarded together with the domain rows.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing transaction")
	}
	return o.publish(ctx, tx, event)
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox unavailable")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing event type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	row := &NotificationEvent{
		ID:        o.genID.Generate(),
		EventType: name,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if dedupe := strings.TrimSpace(event.DedupeKey); dedupe != "" {
		row.DedupeKey = &dedupe
	}

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(row).Error
}

// Pending returns up to limit unsent events, oldest first.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]NotificationEvent, error) {
	var rows []NotificationEvent
	err := o.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkSent records a successful delivery.
func (o *Outbox) MarkSent(ctx context.Context, id snowflake.ID) error {
	now := time.Now().UTC()
	return o.db.WithContext(ctx).
		Model(&NotificationEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  StatusSent,
			"sent_at": now,
		}).Error
}

// MarkFailed bumps the attempt counter and records the delivery error. Events
// that exhaust maxAttempts move to the failed state and are no longer picked
// up.
func (o *Outbox) MarkFailed(ctx context.Context, id snowflake.ID, deliveryErr error, maxAttempts int) error {
	msg := deliveryErr.Error()
	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row NotificationEvent
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		row.Attempts++
		status := StatusPending
		if maxAttempts > 0 && row.Attempts >= maxAttempts {
			status = StatusFailed
		}
		return tx.Model(&NotificationEvent{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"attempts":   row.Attempts,
				"status":     status,
				"last_error": msg,
			}).Error
	})
}
