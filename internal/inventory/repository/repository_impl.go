package repository

import (
	"context"
	"strings"

	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() inventorydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *inventorydomain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*inventorydomain.InventoryItem, error) {
	var item inventorydomain.InventoryItem
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts inventorydomain.ListOptions) ([]inventorydomain.InventoryItem, error) {
	query := db.WithContext(ctx).Model(&inventorydomain.InventoryItem{})
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	if opts.OfferOnly {
		query = query.Where("offer = ?", true)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(item_name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var items []inventorydomain.InventoryItem
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *inventorydomain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Model(&inventorydomain.InventoryItem{}).
		Where("slug = ?", item.Slug).
		Updates(map[string]any{
			"description":    item.Description,
			"category":       item.Category,
			"image":          item.Image,
			"quantity":       item.Quantity,
			"condition":      item.Condition,
			"location":       item.Location,
			"offer":          item.Offer,
			"regular_price":  item.RegularPrice,
			"discount_price": item.DiscountPrice,
			"updated_at":     item.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, slug string) error {
	return db.WithContext(ctx).
		Where("slug = ?", slug).
		Delete(&inventorydomain.InventoryItem{}).Error
}
