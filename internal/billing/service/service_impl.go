package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	cfg    *config.Config
	outbox *events.Outbox

	repo        billingdomain.Repository
	wasteRepo   wastedomain.Repository
	pricingRepo pricingdomain.Repository
	paymentRepo paymentdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      *config.Config
	Outbox      *events.Outbox
	Repo        billingdomain.Repository
	WasteRepo   wastedomain.Repository
	PricingRepo pricingdomain.Repository
	PaymentRepo paymentdomain.Repository
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("billing.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cfg:         p.Config,
		outbox:      p.Outbox,
		repo:        p.Repo,
		wasteRepo:   p.WasteRepo,
		pricingRepo: p.PricingRepo,
		paymentRepo: p.PaymentRepo,
	}
}

func (s *Service) policy() billingdomain.UnpricedPolicy {
	if s.cfg != nil && s.cfg.UnpricedPolicy() == config.UnpricedReject {
		return billingdomain.UnpricedPolicyReject
	}
	return billingdomain.UnpricedPolicyZero
}

// StatementFor re-reads all of a resident's raw records and recomputes the
// statement from scratch. No cached or incremental state is involved.
func (s *Service) StatementFor(ctx context.Context, residentID string) (*billingdomain.Statement, error) {
	return s.statementFor(ctx, s.db, strings.TrimSpace(residentID))
}

func (s *Service) statementFor(ctx context.Context, db *gorm.DB, residentID string) (*billingdomain.Statement, error) {
	records, err := s.wasteRepo.List(ctx, db, wastedomain.ListOptions{ResidentID: residentID})
	if err != nil {
		return nil, err
	}
	entries, err := s.pricingRepo.List(ctx, db)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByCustomer(ctx, db, residentID)
	if err != nil {
		return nil, err
	}
	return BuildStatement(residentID, records, pricingdomain.CatalogOf(entries), payments, s.policy())
}

func (s *Service) Overview(ctx context.Context) ([]billingdomain.Statement, error) {
	records, err := s.wasteRepo.List(ctx, s.db, wastedomain.ListOptions{})
	if err != nil {
		return nil, err
	}
	entries, err := s.pricingRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return BuildOverview(records, pricingdomain.CatalogOf(entries), payments, s.policy())
}

func (s *Service) Create(ctx context.Context, req billingdomain.CreateRequest) (*billingdomain.BillingRecord, error) {
	record := &billingdomain.BillingRecord{
		ID:              s.genID.Generate(),
		BillingID:       strings.TrimSpace(req.BillingID),
		ResidentID:      strings.TrimSpace(req.ResidentID),
		GarbageCost:     req.GarbageCost,
		RecyclingReward: req.RecyclingReward,
		TotalPrice:      req.TotalPrice,
		PaymentStatus:   req.PaymentStatus,
		CreatedAt:       s.clock.Now(ctx),
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByBillingID(ctx, s.db, record.BillingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, billingdomain.ErrDuplicateBilling
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, billingID string) (*billingdomain.BillingRecord, error) {
	record, err := s.repo.FindByBillingID(ctx, s.db, strings.TrimSpace(billingID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, billingdomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]billingdomain.BillingRecord, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ListByResident(ctx context.Context, residentID string) ([]billingdomain.BillingRecord, error) {
	return s.repo.ListByResident(ctx, s.db, strings.TrimSpace(residentID))
}

func (s *Service) Update(ctx context.Context, billingID string, req billingdomain.UpdateRequest) (*billingdomain.BillingRecord, error) {
	record, err := s.Get(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if req.PaymentStatus != nil {
		record.PaymentStatus = *req.PaymentStatus
	}
	if err := s.repo.Update(ctx, s.db, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, billingID string) error {
	if _, err := s.Get(ctx, billingID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, strings.TrimSpace(billingID))
}
