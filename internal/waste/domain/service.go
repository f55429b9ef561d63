package domain

import (
	"context"
	"time"
)

// ItemInput is an unvalidated waste item as received from the API.
type ItemInput struct {
	WasteType string  `json:"wasteType"`
	Category  string  `json:"category"`
	Weight    float64 `json:"weight"`
}

type CreateRequest struct {
	CollectionID   string
	ResidentID     string
	CollectionDate time.Time
	Status         CollectionStatus
	Items          []ItemInput
}

type UpdateRequest struct {
	Status *CollectionStatus
	Items  []ItemInput
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*WasteCollection, error)
	Get(ctx context.Context, collectionID string) (*WasteCollection, error)
	List(ctx context.Context) ([]WasteCollection, error)
	ListByResident(ctx context.Context, residentID string) ([]WasteCollection, error)
	ListByMonth(ctx context.Context, month string) ([]WasteCollection, error)
	Update(ctx context.Context, collectionID string, req UpdateRequest) (*WasteCollection, error)
	Delete(ctx context.Context, collectionID string) error
}
