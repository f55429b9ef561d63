package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListOptions struct {
	ResidentID string
	PeriodFrom *time.Time
	PeriodTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *WasteCollection) error
	FindByCollectionID(ctx context.Context, db *gorm.DB, collectionID string) (*WasteCollection, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]WasteCollection, error)
	Update(ctx context.Context, db *gorm.DB, record *WasteCollection) error
	ReplaceItems(ctx context.Context, db *gorm.DB, recordID snowflake.ID, items []WasteItem) error
	Delete(ctx context.Context, db *gorm.DB, recordID snowflake.ID) error
}
