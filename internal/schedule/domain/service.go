package domain

import (
	"context"
	"time"
)

type CreateRequest struct {
	ResidentID     string    `json:"residentId"`
	CustomerName   string    `json:"customerName"`
	Category       string    `json:"category"`
	ScheduleDate   time.Time `json:"scheduleDate"`
	Location       string    `json:"location"`
	Email          string    `json:"email"`
	AdditionalNote string    `json:"additionalNote"`
}

type UpdateRequest struct {
	Status         *RequestStatus `json:"status"`
	ScheduleDate   *time.Time     `json:"scheduleDate"`
	Location       *string        `json:"location"`
	AdditionalNote *string        `json:"additionalNote"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ScheduleRequest, error)
	Get(ctx context.Context, requestID string) (*ScheduleRequest, error)
	List(ctx context.Context) ([]ScheduleRequest, error)
	ListByResident(ctx context.Context, residentID string) ([]ScheduleRequest, error)
	Update(ctx context.Context, requestID string, req UpdateRequest) (*ScheduleRequest, error)
	Delete(ctx context.Context, requestID string) error
}
