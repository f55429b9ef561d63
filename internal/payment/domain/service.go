package domain

import (
	"context"
	"time"
)

type CreateRequest struct {
	PaymentID     string
	CustomerID    string
	PaymentDate   time.Time
	Amount        float64
	PaymentMethod string
}

type UpdateRequest struct {
	PaymentDate   *time.Time
	Amount        *float64
	PaymentMethod *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PaymentRecord, error)
	Get(ctx context.Context, paymentID string) (*PaymentRecord, error)
	List(ctx context.Context) ([]PaymentRecord, error)
	ListByResident(ctx context.Context, residentID string) ([]PaymentRecord, error)
	Update(ctx context.Context, paymentID string, req UpdateRequest) (*PaymentRecord, error)
	Delete(ctx context.Context, paymentID string) error
}
