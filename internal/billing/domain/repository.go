package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	FindByBillingID(ctx context.Context, db *gorm.DB, billingID string) (*BillingRecord, error)
	FindByPaymentRef(ctx context.Context, db *gorm.DB, paymentRef string) (*BillingRecord, error)
	List(ctx context.Context, db *gorm.DB) ([]BillingRecord, error)
	ListByResident(ctx context.Context, db *gorm.DB, residentID string) ([]BillingRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	Delete(ctx context.Context, db *gorm.DB, billingID string) error
}
