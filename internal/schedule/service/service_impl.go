package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	scheduledomain "github.com/greentruckerlabs/greentrucker/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	outbox *events.Outbox
	repo   scheduledomain.Repository
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Outbox *events.Outbox
	Repo   scheduledomain.Repository
}

func NewService(p ServiceParam) scheduledomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("schedule.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		outbox: p.Outbox,
		repo:   p.Repo,
	}
}

// Create stores a pickup request and queues the confirmation email in the
// same transaction.
func (s *Service) Create(ctx context.Context, req scheduledomain.CreateRequest) (*scheduledomain.ScheduleRequest, error) {
	now := s.clock.Now(ctx)
	record := &scheduledomain.ScheduleRequest{
		ID:             s.genID.Generate(),
		RequestID:      "REQ-" + s.genID.Generate().String(),
		ResidentID:     strings.TrimSpace(req.ResidentID),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Category:       strings.TrimSpace(req.Category),
		ScheduleDate:   req.ScheduleDate,
		Location:       strings.TrimSpace(req.Location),
		Email:          strings.TrimSpace(req.Email),
		AdditionalNote: strings.TrimSpace(req.AdditionalNote),
		Status:         scheduledomain.RequestStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, record); err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type:      events.EventScheduleRequested,
			DedupeKey: "schedule-requested-" + record.RequestID,
			Payload: events.SchedulePayload{
				RequestID:    record.RequestID,
				CustomerName: record.CustomerName,
				Category:     record.Category,
				ScheduleDate: record.ScheduleDate.Format("2006-01-02"),
				Location:     record.Location,
				Email:        record.Email,
				Status:       string(record.Status),
			}.ToMap(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("schedule request created",
		zap.String("request_id", record.RequestID),
		zap.String("resident_id", record.ResidentID),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (*scheduledomain.ScheduleRequest, error) {
	record, err := s.repo.FindByRequestID(ctx, s.db, strings.TrimSpace(requestID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, scheduledomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]scheduledomain.ScheduleRequest, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ListByResident(ctx context.Context, residentID string) ([]scheduledomain.ScheduleRequest, error) {
	return s.repo.ListByResident(ctx, s.db, strings.TrimSpace(residentID))
}

func (s *Service) Update(ctx context.Context, requestID string, req scheduledomain.UpdateRequest) (*scheduledomain.ScheduleRequest, error) {
	requestID = strings.TrimSpace(requestID)

	var updated *scheduledomain.ScheduleRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByRequestID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if record == nil {
			return scheduledomain.ErrNotFound
		}

		statusChanged := false
		if req.Status != nil && *req.Status != record.Status {
			if !scheduledomain.ValidStatus(*req.Status) {
				return scheduledomain.ErrInvalidStatus
			}
			record.Status = *req.Status
			statusChanged = true
		}
		if req.ScheduleDate != nil {
			record.ScheduleDate = *req.ScheduleDate
		}
		if req.Location != nil {
			record.Location = strings.TrimSpace(*req.Location)
		}
		if req.AdditionalNote != nil {
			record.AdditionalNote = strings.TrimSpace(*req.AdditionalNote)
		}
		record.UpdatedAt = s.clock.Now(ctx)

		if err := s.repo.Update(ctx, tx, record); err != nil {
			return err
		}
		if statusChanged {
			err = s.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventScheduleUpdated,
				Payload: events.SchedulePayload{
					RequestID:    record.RequestID,
					CustomerName: record.CustomerName,
					Category:     record.Category,
					ScheduleDate: record.ScheduleDate.Format("2006-01-02"),
					Location:     record.Location,
					Email:        record.Email,
					Status:       string(record.Status),
				}.ToMap(),
			})
			if err != nil {
				return err
			}
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, requestID string) error {
	requestID = strings.TrimSpace(requestID)
	record, err := s.repo.FindByRequestID(ctx, s.db, requestID)
	if err != nil {
		return err
	}
	if record == nil {
		return scheduledomain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, requestID)
}
