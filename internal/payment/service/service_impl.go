package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  paymentdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  paymentdomain.Repository
}

func NewService(p ServiceParam) paymentdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req paymentdomain.CreateRequest) (*paymentdomain.PaymentRecord, error) {
	record := &paymentdomain.PaymentRecord{
		ID:            s.genID.Generate(),
		PaymentID:     strings.TrimSpace(req.PaymentID),
		CustomerID:    strings.TrimSpace(req.CustomerID),
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPaymentID(ctx, s.db, record.PaymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, paymentdomain.ErrDuplicatePayment
	}

	now := s.clock.Now(ctx)
	if record.PaymentDate.IsZero() {
		record.PaymentDate = now
	}
	record.CreatedAt = now
	record.ReceiptNumber = NewReceiptNumber(now)

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", record.PaymentID),
		zap.String("customer_id", record.CustomerID),
		zap.Float64("amount", record.Amount),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, paymentID string) (*paymentdomain.PaymentRecord, error) {
	record, err := s.repo.FindByPaymentID(ctx, s.db, strings.TrimSpace(paymentID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, paymentdomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]paymentdomain.PaymentRecord, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ListByResident(ctx context.Context, residentID string) ([]paymentdomain.PaymentRecord, error) {
	return s.repo.ListByCustomer(ctx, s.db, strings.TrimSpace(residentID))
}

func (s *Service) Update(ctx context.Context, paymentID string, req paymentdomain.UpdateRequest) (*paymentdomain.PaymentRecord, error) {
	record, err := s.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if req.PaymentDate != nil {
		record.PaymentDate = *req.PaymentDate
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		record.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}

	if err := s.repo.Update(ctx, s.db, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, paymentID string) error {
	if _, err := s.Get(ctx, paymentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, strings.TrimSpace(paymentID))
}

// NewReceiptNumber mints a time-sortable receipt number for a payment.
func NewReceiptNumber(at time.Time) string {
	return "RCPT-" + ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
}
