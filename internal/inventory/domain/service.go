package domain

import "context"

type CreateRequest struct {
	UserID        string         `json:"userId"`
	ItemName      string         `json:"itemName"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Image         string         `json:"image"`
	Quantity      int            `json:"quantity"`
	Condition     int            `json:"condition"`
	Location      string         `json:"location"`
	Type          string         `json:"type"`
	Offer         bool           `json:"offer"`
	RegularPrice  float64        `json:"regularPrice"`
	DiscountPrice float64        `json:"discountPrice"`
	Metadata      map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Image         *string  `json:"image"`
	Quantity      *int     `json:"quantity"`
	Condition     *int     `json:"condition"`
	Location      *string  `json:"location"`
	Offer         *bool    `json:"offer"`
	RegularPrice  *float64 `json:"regularPrice"`
	DiscountPrice *float64 `json:"discountPrice"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*InventoryItem, error)
	Get(ctx context.Context, slug string) (*InventoryItem, error)
	List(ctx context.Context, opts ListOptions) ([]InventoryItem, error)
	Update(ctx context.Context, slug string, req UpdateRequest) (*InventoryItem, error)
	Delete(ctx context.Context, slug string) error
}
