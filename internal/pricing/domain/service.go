package domain

import "context"

type CreateRequest struct {
	Item         string
	PricePerUnit float64
}

type UpdateRequest struct {
	Item         *string
	PricePerUnit *float64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PricingEntry, error)
	Get(ctx context.Context, id string) (*PricingEntry, error)
	List(ctx context.Context) ([]PricingEntry, error)
	Catalog(ctx context.Context) (Catalog, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*PricingEntry, error)
	Delete(ctx context.Context, id string) error
}
