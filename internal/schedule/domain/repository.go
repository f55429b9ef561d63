package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *ScheduleRequest) error
	FindByRequestID(ctx context.Context, db *gorm.DB, requestID string) (*ScheduleRequest, error)
	List(ctx context.Context, db *gorm.DB) ([]ScheduleRequest, error)
	ListByResident(ctx context.Context, db *gorm.DB, residentID string) ([]ScheduleRequest, error)
	Update(ctx context.Context, db *gorm.DB, record *ScheduleRequest) error
	Delete(ctx context.Context, db *gorm.DB, requestID string) error
}
