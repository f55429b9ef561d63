package domain

import (
	"context"

	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
)

type CreateRequest struct {
	BillingID       string
	ResidentID      string
	GarbageCost     float64
	RecyclingReward float64
	TotalPrice      float64
	PaymentStatus   PaymentStatus
}

type UpdateRequest struct {
	PaymentStatus *PaymentStatus
}

type SettleRequest struct {
	ResidentID     string
	PaymentMethod  string
	IdempotencyKey string
}

// SettlementResult carries the two records written by a settlement. Replayed
// is set when an idempotency key matched a previous settlement and nothing
// new was written.
type SettlementResult struct {
	Payment  *paymentdomain.PaymentRecord `json:"payment"`
	Billing  *BillingRecord               `json:"billing"`
	Replayed bool                         `json:"replayed"`
}

type Service interface {
	// StatementFor recomputes the cost breakdown and outstanding balance for
	// one resident from raw records.
	StatementFor(ctx context.Context, residentID string) (*Statement, error)
	// Overview recomputes statements for every resident with any waste
	// record or payment, for the administrator view.
	Overview(ctx context.Context) ([]Statement, error)
	// Settle executes the pay-now action for a resident's outstanding balance.
	Settle(ctx context.Context, req SettleRequest) (*SettlementResult, error)

	Create(ctx context.Context, req CreateRequest) (*BillingRecord, error)
	Get(ctx context.Context, billingID string) (*BillingRecord, error)
	List(ctx context.Context) ([]BillingRecord, error)
	ListByResident(ctx context.Context, residentID string) ([]BillingRecord, error)
	Update(ctx context.Context, billingID string, req UpdateRequest) (*BillingRecord, error)
	Delete(ctx context.Context, billingID string) error
}
