// Package domain holds the reusable-goods marketplace items staff curate.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrMissingName      = errors.New("item name is required")
	ErrMissingUser      = errors.New("user id is required")
	ErrMissingLocation  = errors.New("item location is required")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrInvalidCondition = errors.New("condition must be between 1 and 10")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrInvalidDiscount  = errors.New("discount price must not exceed the regular price")
	ErrDuplicateSlug    = errors.New("an item with this slug already exists")
	ErrNotFound         = errors.New("inventory item not found")
)

const DefaultCategory = "Uncategorized"

// InventoryItem is one second-hand listing in the marketplace.
type InventoryItem struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"-"`
	UserID        string            `gorm:"type:text;not null" json:"userId"`
	ItemName      string            `gorm:"type:text;not null" json:"itemName"`
	Description   string            `gorm:"type:text;not null" json:"description"`
	Category      string            `gorm:"type:text;not null;default:Uncategorized" json:"category"`
	Image         string            `gorm:"type:text" json:"image,omitempty"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	Condition     int               `gorm:"not null" json:"condition"`
	Location      string            `gorm:"type:text;not null" json:"location"`
	Type          string            `gorm:"type:text;not null" json:"type"`
	Offer         bool              `gorm:"not null;default:false" json:"offer"`
	RegularPrice  float64           `gorm:"not null" json:"regularPrice"`
	DiscountPrice float64           `gorm:"not null" json:"discountPrice"`
	Slug          string            `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.ItemName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(i.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(i.Location) == "" {
		return ErrMissingLocation
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if i.Condition < 1 || i.Condition > 10 {
		return ErrInvalidCondition
	}
	if i.RegularPrice < 0 || i.DiscountPrice < 0 {
		return ErrNegativePrice
	}
	if i.Offer && i.DiscountPrice > i.RegularPrice {
		return ErrInvalidDiscount
	}
	return nil
}
