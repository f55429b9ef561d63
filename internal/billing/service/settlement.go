package service

import (
	"context"
	"fmt"
	"strings"

	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	paymentservice "github.com/greentruckerlabs/greentrucker/internal/payment/service"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Settle executes the pay-now action. The outstanding balance is recomputed
// inside the transaction, so a concurrent settlement for the same resident
// finds a zero balance and is rejected instead of double-charging.
func (s *Service) Settle(ctx context.Context, req billingdomain.SettleRequest) (*billingdomain.SettlementResult, error) {
	residentID := strings.TrimSpace(req.ResidentID)
	if residentID == "" {
		return nil, billingdomain.ErrMissingResident
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, billingdomain.ErrMissingMethod
	}
	idemKey := strings.TrimSpace(req.IdempotencyKey)

	if idemKey != "" {
		replay, err := s.findReplay(ctx, idemKey)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
	}

	var result *billingdomain.SettlementResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statement, err := s.statementFor(ctx, tx, residentID)
		if err != nil {
			return err
		}
		if statement.OutstandingBalance <= 0 {
			return billingdomain.ErrNothingOutstanding
		}

		now := s.clock.Now(ctx)
		payment := &paymentdomain.PaymentRecord{
			ID:            s.genID.Generate(),
			PaymentID:     "PAY-" + s.genID.Generate().String(),
			CustomerID:    residentID,
			PaymentDate:   now,
			Amount:        statement.OutstandingBalance,
			PaymentMethod: method,
			ReceiptNumber: paymentservice.NewReceiptNumber(now),
			CreatedAt:     now,
		}
		if idemKey != "" {
			payment.IdempotencyKey = &idemKey
		}
		if err := s.paymentRepo.Insert(ctx, tx, payment); err != nil {
			return err
		}

		billing := &billingdomain.BillingRecord{
			ID:              s.genID.Generate(),
			BillingID:       "BILL-" + s.genID.Generate().String(),
			ResidentID:      residentID,
			GarbageCost:     statement.TotalGarbageCost,
			RecyclingReward: statement.TotalRecyclingReward,
			TotalPrice:      statement.OutstandingBalance,
			PaymentStatus:   billingdomain.PaymentStatusPaid,
			PaymentRef:      &payment.PaymentID,
			Breakdown:       breakdownMap(statement),
			CreatedAt:       now,
		}
		if err := s.repo.Insert(ctx, tx, billing); err != nil {
			// The payment insert already succeeded inside this transaction.
			// Rolling back keeps the store consistent, but the failure is
			// surfaced under its own kind so operators see it.
			return fmt.Errorf("%w: %v", billingdomain.ErrPartialSettlement, err)
		}

		err = s.outbox.PublishTx(ctx, tx, events.Event{
			Type:      events.EventPaymentSettled,
			DedupeKey: "payment-settled-" + payment.PaymentID,
			Payload: events.SettlementPayload{
				ResidentID:    residentID,
				PaymentID:     payment.PaymentID,
				BillingID:     billing.BillingID,
				Amount:        payment.Amount,
				ReceiptNumber: payment.ReceiptNumber,
			}.ToMap(),
		})
		if err != nil {
			return err
		}

		result = &billingdomain.SettlementResult{Payment: payment, Billing: billing}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("settlement completed",
		zap.String("resident_id", residentID),
		zap.String("payment_id", result.Payment.PaymentID),
		zap.String("billing_id", result.Billing.BillingID),
		zap.Float64("amount", result.Payment.Amount),
	)
	return result, nil
}

func (s *Service) findReplay(ctx context.Context, idemKey string) (*billingdomain.SettlementResult, error) {
	payment, err := s.paymentRepo.FindByIdempotencyKey(ctx, s.db, idemKey)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, nil
	}
	billing, err := s.repo.FindByPaymentRef(ctx, s.db, payment.PaymentID)
	if err != nil {
		return nil, err
	}
	return &billingdomain.SettlementResult{Payment: payment, Billing: billing, Replayed: true}, nil
}

func breakdownMap(statement *billingdomain.Statement) datatypes.JSONMap {
	lines := make([]any, 0, len(statement.PerCategoryBreakdown))
	for _, line := range statement.PerCategoryBreakdown {
		lines = append(lines, map[string]any{
			"wasteType":    string(line.WasteType),
			"category":     line.Category,
			"weight":       line.Weight,
			"pricePerUnit": line.PricePerUnit,
			"amount":       line.Amount,
		})
	}
	return datatypes.JSONMap{
		"totalPrice":         statement.TotalPrice,
		"priorPaymentsTotal": statement.PriorPaymentsTotal,
		"lines":              lines,
	}
}
