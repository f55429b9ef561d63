// Package domain holds the billing snapshot model and the statement shapes
// produced by the billing calculator.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusPending PaymentStatus = "Pending"
)

// UnpricedPolicy decides what happens when a waste category has no pricing
// catalog entry.
type UnpricedPolicy string

const (
	UnpricedPolicyZero   UnpricedPolicy = "zero"
	UnpricedPolicyReject UnpricedPolicy = "reject"
)

var (
	ErrMissingBillingID     = errors.New("billing id is required")
	ErrMissingResident      = errors.New("resident id is required")
	ErrNegativeAmount       = errors.New("billing amounts must not be negative")
	ErrInvalidPaymentStatus = errors.New("payment status must be Paid, Unpaid or Pending")
	ErrDuplicateBilling     = errors.New("a billing record with this id already exists")
	ErrNotFound             = errors.New("billing record not found")
	ErrMissingMethod        = errors.New("payment method is required")
	ErrNothingOutstanding   = errors.New("no outstanding balance to settle")
	// ErrPartialSettlement marks a settlement where the payment write
	// succeeded but the billing snapshot write did not. The transaction is
	// rolled back, but the failure is surfaced under its own kind so it can
	// never pass silently.
	ErrPartialSettlement = errors.New("settlement incomplete: billing snapshot write failed")
)

// UnpricedCategoryError is returned under the reject policy when waste items
// reference categories absent from the pricing catalog.
type UnpricedCategoryError struct {
	Categories []string
}

func (e *UnpricedCategoryError) Error() string {
	return fmt.Sprintf("no pricing entry for categories: %s", strings.Join(e.Categories, ", "))
}

// BillingRecord is a denormalized snapshot written at settlement time. It is
// not the source of truth for the outstanding balance; the calculator
// recomputes that from raw records on every request.
type BillingRecord struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"-"`
	BillingID       string            `gorm:"type:text;not null;uniqueIndex" json:"billingId"`
	ResidentID      string            `gorm:"type:text;not null;index" json:"residentId"`
	GarbageCost     float64           `gorm:"not null" json:"garbageCost"`
	RecyclingReward float64           `gorm:"not null" json:"recyclingReward"`
	TotalPrice      float64           `gorm:"not null" json:"totalPrice"`
	PaymentStatus   PaymentStatus     `gorm:"type:text;not null" json:"paymentStatus"`
	PaymentRef      *string           `gorm:"type:text" json:"paymentRef,omitempty"`
	Breakdown       datatypes.JSONMap `json:"breakdown,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (BillingRecord) TableName() string { return "billings" }

// Validate applies the persistence invariants for a billing snapshot.
func (b *BillingRecord) Validate() error {
	if b.BillingID == "" {
		return ErrMissingBillingID
	}
	if b.ResidentID == "" {
		return ErrMissingResident
	}
	if b.GarbageCost < 0 || b.RecyclingReward < 0 || b.TotalPrice < 0 {
		return ErrNegativeAmount
	}
	switch b.PaymentStatus {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusPending:
		return nil
	default:
		return ErrInvalidPaymentStatus
	}
}

// CategoryLine is one row of the per-category breakdown: total weight of a
// category across the aggregated records and its monetary contribution.
type CategoryLine struct {
	WasteType    wastedomain.WasteType `json:"wasteType"`
	Category     string                `json:"category"`
	Weight       float64               `json:"weight"`
	PricePerUnit float64               `json:"pricePerUnit"`
	Amount       float64               `json:"amount"`
}

// Statement is the calculator output for one resident.
type Statement struct {
	ResidentID           string         `json:"residentId"`
	TotalGarbageCost     float64        `json:"totalGarbageCost"`
	TotalRecyclingReward float64        `json:"totalRecyclingReward"`
	TotalPrice           float64        `json:"totalPrice"`
	PriorPaymentsTotal   float64        `json:"priorPaymentsTotal"`
	OutstandingBalance   float64        `json:"outstandingBalance"`
	PerCategoryBreakdown []CategoryLine `json:"perCategoryBreakdown"`
	UnpricedCategories   []string       `json:"unpricedCategories,omitempty"`
}
