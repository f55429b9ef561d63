package domain

import (
	"context"

	"gorm.io/gorm"
)

// ListOptions narrows inventory listings. Zero values mean no filter.
type ListOptions struct {
	Category  string
	Type      string
	OfferOnly bool
	Search    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*InventoryItem, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]InventoryItem, error)
	Update(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	Delete(ctx context.Context, db *gorm.DB, slug string) error
}
