package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/greentruckerlabs/greentrucker/internal/audit/domain"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Record appends one audit row. Failures are returned to the caller but the
// handlers treat them as non-fatal and only log them.
func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) error {
	row := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		Actor:      entry.Actor,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		CreatedAt:  s.clock.Now(ctx),
	}
	if entry.TargetID != "" {
		targetID := entry.TargetID
		row.TargetID = &targetID
	}
	if len(entry.Detail) > 0 {
		row.Detail = datatypes.JSONMap(entry.Detail)
	}
	if err := row.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(row).Error
}
