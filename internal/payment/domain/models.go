package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrMissingPaymentID = errors.New("payment id is required")
	ErrMissingCustomer  = errors.New("customer id is required")
	ErrMissingMethod    = errors.New("payment method is required")
	ErrNegativeAmount   = errors.New("payment amount must not be negative")
	ErrDuplicatePayment = errors.New("a payment with this id already exists")
	ErrNotFound         = errors.New("payment not found")
)

// PaymentRecord is one completed payment. Immutable in the settlement flow;
// the update and delete operations exist for staff corrections only.
type PaymentRecord struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"-"`
	PaymentID      string       `gorm:"type:text;not null;uniqueIndex" json:"paymentID"`
	CustomerID     string       `gorm:"type:text;not null;index" json:"customerID"`
	PaymentDate    time.Time    `gorm:"not null" json:"paymentDate"`
	Amount         float64      `gorm:"not null" json:"amount"`
	PaymentMethod  string       `gorm:"type:text;not null" json:"paymentMethod"`
	ReceiptNumber  string       `gorm:"type:text;not null" json:"receiptNumber"`
	IdempotencyKey *string      `gorm:"type:text;uniqueIndex" json:"-"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (PaymentRecord) TableName() string { return "payments" }

// Validate applies the persistence invariants. Both the service and the
// repository insert path delegate here.
func (p *PaymentRecord) Validate() error {
	if p.PaymentID == "" {
		return ErrMissingPaymentID
	}
	if p.CustomerID == "" {
		return ErrMissingCustomer
	}
	if p.PaymentMethod == "" {
		return ErrMissingMethod
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
