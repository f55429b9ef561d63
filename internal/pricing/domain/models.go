package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrMissingItem     = errors.New("pricing item name is required")
	ErrNegativePrice   = errors.New("price per unit must not be negative")
	ErrDuplicateItem   = errors.New("a pricing entry for this item already exists")
	ErrNotFound        = errors.New("pricing entry not found")
)

// PricingEntry maps a waste category name to its price per unit weight.
type PricingEntry struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"-"`
	Item         string       `gorm:"type:text;not null;uniqueIndex" json:"item"`
	PricePerUnit float64      `gorm:"not null" json:"pricePerUnit"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (PricingEntry) TableName() string { return "pricing_entries" }

// Catalog is the read-only price lookup consumed by the billing calculator.
type Catalog map[string]float64

// CatalogOf builds a Catalog from a list of entries. Later duplicates win,
// matching a by-name overwrite in the admin UI.
func CatalogOf(entries []PricingEntry) Catalog {
	catalog := make(Catalog, len(entries))
	for _, entry := range entries {
		catalog[entry.Item] = entry.PricePerUnit
	}
	return catalog
}
