package repository

import (
	"context"

	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *billingdomain.BillingRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByBillingID(ctx context.Context, db *gorm.DB, billingID string) (*billingdomain.BillingRecord, error) {
	var record billingdomain.BillingRecord
	err := db.WithContext(ctx).Where("billing_id = ?", billingID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) FindByPaymentRef(ctx context.Context, db *gorm.DB, paymentRef string) (*billingdomain.BillingRecord, error) {
	var record billingdomain.BillingRecord
	err := db.WithContext(ctx).Where("payment_ref = ?", paymentRef).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]billingdomain.BillingRecord, error) {
	var records []billingdomain.BillingRecord
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListByResident(ctx context.Context, db *gorm.DB, residentID string) ([]billingdomain.BillingRecord, error) {
	var records []billingdomain.BillingRecord
	err := db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *billingdomain.BillingRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Model(&billingdomain.BillingRecord{}).
		Where("billing_id = ?", record.BillingID).
		Update("payment_status", record.PaymentStatus).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, billingID string) error {
	return db.WithContext(ctx).
		Where("billing_id = ?", billingID).
		Delete(&billingdomain.BillingRecord{}).Error
}
