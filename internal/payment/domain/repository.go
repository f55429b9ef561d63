package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PaymentRecord) error
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*PaymentRecord, error)
	FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*PaymentRecord, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID string) ([]PaymentRecord, error)
	List(ctx context.Context, db *gorm.DB) ([]PaymentRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *PaymentRecord) error
	Delete(ctx context.Context, db *gorm.DB, paymentID string) error
}
