// Package domain holds the append-only audit trail of staff and admin
// actions.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrMissingActor  = errors.New("audit actor is required")
	ErrMissingAction = errors.New("audit action is required")
	ErrMissingTarget = errors.New("audit target type is required")
)

// AuditLog is one recorded action. Rows are never updated or deleted.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"-"`
	Actor      string            `gorm:"type:text;not null" json:"actor"`
	Action     string            `gorm:"type:text;not null" json:"action"`
	TargetType string            `gorm:"type:text;not null" json:"targetType"`
	TargetID   *string           `gorm:"type:text" json:"targetId,omitempty"`
	Detail     datatypes.JSONMap `json:"detail,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (l *AuditLog) Validate() error {
	if l.Actor == "" {
		return ErrMissingActor
	}
	if l.Action == "" {
		return ErrMissingAction
	}
	if l.TargetType == "" {
		return ErrMissingTarget
	}
	return nil
}

// Entry is the caller-facing shape for recording an action.
type Entry struct {
	Actor      string
	Action     string
	TargetType string
	TargetID   string
	Detail     map[string]any
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}
