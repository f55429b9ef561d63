package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *PricingEntry) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PricingEntry, error)
	FindByItem(ctx context.Context, db *gorm.DB, item string) (*PricingEntry, error)
	List(ctx context.Context, db *gorm.DB) ([]PricingEntry, error)
	Update(ctx context.Context, db *gorm.DB, entry *PricingEntry) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
