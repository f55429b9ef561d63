package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() wastedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *wastedomain.WasteCollection) error {
	// Schema-level CHECKs mirror this, but the record is rejected here first
	// so sqlite test databases behave the same as postgres.
	for _, item := range record.Garbage {
		if err := wastedomain.ValidateItem(item.WasteType, item.Category, item.Weight); err != nil {
			return err
		}
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByCollectionID(ctx context.Context, db *gorm.DB, collectionID string) (*wastedomain.WasteCollection, error) {
	var record wastedomain.WasteCollection
	err := db.WithContext(ctx).
		Preload("Garbage", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("collection_id = ?", collectionID).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts wastedomain.ListOptions) ([]wastedomain.WasteCollection, error) {
	query := db.WithContext(ctx).
		Model(&wastedomain.WasteCollection{}).
		Preload("Garbage", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })

	if opts.ResidentID != "" {
		query = query.Where("resident_id = ?", opts.ResidentID)
	}
	if opts.PeriodFrom != nil {
		query = query.Where("collection_date >= ?", *opts.PeriodFrom)
	}
	if opts.PeriodTo != nil {
		query = query.Where("collection_date < ?", *opts.PeriodTo)
	}

	var records []wastedomain.WasteCollection
	if err := query.Order("collection_date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *wastedomain.WasteCollection) error {
	return db.WithContext(ctx).
		Model(&wastedomain.WasteCollection{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":     record.Status,
			"updated_at": record.UpdatedAt,
		}).Error
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, recordID snowflake.ID, items []wastedomain.WasteItem) error {
	for _, item := range items {
		if err := wastedomain.ValidateItem(item.WasteType, item.Category, item.Weight); err != nil {
			return err
		}
	}
	if err := db.WithContext(ctx).
		Where("collection_id = ?", recordID).
		Delete(&wastedomain.WasteItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, recordID snowflake.ID) error {
	if err := db.WithContext(ctx).
		Where("collection_id = ?", recordID).
		Delete(&wastedomain.WasteItem{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("id = ?", recordID).
		Delete(&wastedomain.WasteCollection{}).Error
}
