// Package domain holds the waste collection records and the waste item
// factory. The type/category pairing rule lives here and nowhere else; the
// write path and the HTTP layer both delegate to it.
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

type WasteType string

const (
	WasteTypeRecyclable    WasteType = "Recyclable"
	WasteTypeNonRecyclable WasteType = "Non-Recyclable"
)

type CollectionStatus string

const (
	CollectionStatusScheduled CollectionStatus = "Scheduled"
	CollectionStatusCollected CollectionStatus = "Collected"
	CollectionStatusCancelled CollectionStatus = "Cancelled"
)

var recyclableCategories = map[string]struct{}{
	"Paper":   {},
	"Plastic": {},
	"Glass":   {},
	"Metal":   {},
}

var nonRecyclableCategories = map[string]struct{}{
	"Food Waste": {},
	"Organic":    {},
	"Hazardous":  {},
	"Other":      {},
}

var (
	ErrInvalidWasteType   = errors.New("waste type must be Recyclable or Non-Recyclable")
	ErrNegativeWeight     = errors.New("weight must not be negative")
	ErrInvalidStatus      = errors.New("status must be Scheduled, Collected or Cancelled")
	ErrMissingCollectionID = errors.New("collection id is required")
	ErrMissingResident    = errors.New("resident id is required")
	ErrEmptyGarbage       = errors.New("a collection record needs at least one waste item")
	ErrDuplicateCollection = errors.New("a collection with this id already exists")
	ErrNotFound           = errors.New("waste collection record not found")
	ErrInvalidMonth       = errors.New("collection month must be formatted YYYY-MM")
)

// CategoryMismatchError reports an item whose category does not belong to the
// allowed set for its waste type. Both offending values are carried so the
// caller can surface them.
type CategoryMismatchError struct {
	WasteType WasteType
	Category  string
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("%q is not a valid category for waste type %q", e.Category, e.WasteType)
}

// WasteItem is one weighed item inside a collection record.
type WasteItem struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"-"`
	CollectionID snowflake.ID `gorm:"not null;index" json:"-"`
	Position     int          `gorm:"not null" json:"-"`
	WasteType    WasteType    `gorm:"type:text;not null" json:"wasteType"`
	Category     string       `gorm:"type:text;not null" json:"category"`
	Weight       float64      `gorm:"not null" json:"weight"`
}

func (WasteItem) TableName() string { return "waste_items" }

// WasteCollection is a per-resident pickup record.
type WasteCollection struct {
	ID             snowflake.ID     `gorm:"primaryKey" json:"-"`
	CollectionID   string           `gorm:"type:text;not null;uniqueIndex" json:"collectionId"`
	ResidentID     string           `gorm:"type:text;not null;index" json:"residentId"`
	CollectionDate time.Time        `gorm:"not null" json:"collectionDate"`
	Status         CollectionStatus `gorm:"type:text;not null" json:"status"`
	Garbage        []WasteItem      `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"garbage"`
	CreatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (WasteCollection) TableName() string { return "waste_collections" }

// NewWasteItem constructs a WasteItem, enforcing the type/category pairing at
// the point of construction. No partial value is returned on failure.
func NewWasteItem(wasteType WasteType, category string, weight float64) (WasteItem, error) {
	if err := ValidateItem(wasteType, category, weight); err != nil {
		return WasteItem{}, err
	}
	return WasteItem{
		WasteType: wasteType,
		Category:  category,
		Weight:    weight,
	}, nil
}

// ValidateItem is the single validation authority for waste items. The
// factory and the repository insert path both call it.
func ValidateItem(wasteType WasteType, category string, weight float64) error {
	if weight < 0 {
		return ErrNegativeWeight
	}
	switch wasteType {
	case WasteTypeRecyclable:
		if _, ok := recyclableCategories[category]; !ok {
			return &CategoryMismatchError{WasteType: wasteType, Category: category}
		}
	case WasteTypeNonRecyclable:
		if _, ok := nonRecyclableCategories[category]; !ok {
			return &CategoryMismatchError{WasteType: wasteType, Category: category}
		}
	default:
		return ErrInvalidWasteType
	}
	return nil
}

// ValidStatus reports whether s is one of the collection states.
func ValidStatus(s CollectionStatus) bool {
	switch s {
	case CollectionStatusScheduled, CollectionStatusCollected, CollectionStatusCancelled:
		return true
	default:
		return false
	}
}
