package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *pricingdomain.PricingEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*pricingdomain.PricingEntry, error) {
	var entry pricingdomain.PricingEntry
	err := db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) FindByItem(ctx context.Context, db *gorm.DB, item string) (*pricingdomain.PricingEntry, error) {
	var entry pricingdomain.PricingEntry
	err := db.WithContext(ctx).Where("item = ?", item).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]pricingdomain.PricingEntry, error) {
	var entries []pricingdomain.PricingEntry
	if err := db.WithContext(ctx).Order("item ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, entry *pricingdomain.PricingEntry) error {
	return db.WithContext(ctx).
		Model(&pricingdomain.PricingEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"item":           entry.Item,
			"price_per_unit": entry.PricePerUnit,
			"updated_at":     entry.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&pricingdomain.PricingEntry{}).Error
}
