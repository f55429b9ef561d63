package repository

import (
	"context"

	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *paymentdomain.PaymentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*paymentdomain.PaymentRecord, error) {
	var record paymentdomain.PaymentRecord
	err := db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*paymentdomain.PaymentRecord, error) {
	var record paymentdomain.PaymentRecord
	err := db.WithContext(ctx).Where("idempotency_key = ?", key).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID string) ([]paymentdomain.PaymentRecord, error) {
	var records []paymentdomain.PaymentRecord
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("payment_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]paymentdomain.PaymentRecord, error) {
	var records []paymentdomain.PaymentRecord
	if err := db.WithContext(ctx).Order("payment_date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *paymentdomain.PaymentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Model(&paymentdomain.PaymentRecord{}).
		Where("payment_id = ?", record.PaymentID).
		Updates(map[string]any{
			"payment_date":   record.PaymentDate,
			"amount":         record.Amount,
			"payment_method": record.PaymentMethod,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, paymentID string) error {
	return db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Delete(&paymentdomain.PaymentRecord{}).Error
}
