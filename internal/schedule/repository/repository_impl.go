package repository

import (
	"context"

	scheduledomain "github.com/greentruckerlabs/greentrucker/internal/schedule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() scheduledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *scheduledomain.ScheduleRequest) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByRequestID(ctx context.Context, db *gorm.DB, requestID string) (*scheduledomain.ScheduleRequest, error) {
	var record scheduledomain.ScheduleRequest
	err := db.WithContext(ctx).Where("request_id = ?", requestID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]scheduledomain.ScheduleRequest, error) {
	var records []scheduledomain.ScheduleRequest
	if err := db.WithContext(ctx).Order("schedule_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListByResident(ctx context.Context, db *gorm.DB, residentID string) ([]scheduledomain.ScheduleRequest, error) {
	var records []scheduledomain.ScheduleRequest
	err := db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("schedule_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *scheduledomain.ScheduleRequest) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Model(&scheduledomain.ScheduleRequest{}).
		Where("request_id = ?", record.RequestID).
		Updates(map[string]any{
			"schedule_date":   record.ScheduleDate,
			"location":        record.Location,
			"additional_note": record.AdditionalNote,
			"status":          record.Status,
			"updated_at":      record.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, requestID string) error {
	return db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&scheduledomain.ScheduleRequest{}).Error
}
