package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  pricingdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  pricingdomain.Repository
}

func NewService(p ServiceParam) pricingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pricing.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req pricingdomain.CreateRequest) (*pricingdomain.PricingEntry, error) {
	item := strings.TrimSpace(req.Item)
	if item == "" {
		return nil, pricingdomain.ErrMissingItem
	}
	if req.PricePerUnit < 0 {
		return nil, pricingdomain.ErrNegativePrice
	}

	existing, err := s.repo.FindByItem(ctx, s.db, item)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pricingdomain.ErrDuplicateItem
	}

	now := s.clock.Now(ctx)
	entry := &pricingdomain.PricingEntry{
		ID:           s.genID.Generate(),
		Item:         item,
		PricePerUnit: req.PricePerUnit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		return nil, err
	}

	s.log.Info("pricing entry created", zap.String("item", entry.Item), zap.Float64("price_per_unit", entry.PricePerUnit))
	return entry, nil
}

func (s *Service) Get(ctx context.Context, id string) (*pricingdomain.PricingEntry, error) {
	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, pricingdomain.ErrNotFound
	}
	entry, err := s.repo.FindByID(ctx, s.db, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, pricingdomain.ErrNotFound
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context) ([]pricingdomain.PricingEntry, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Catalog(ctx context.Context) (pricingdomain.Catalog, error) {
	entries, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return pricingdomain.CatalogOf(entries), nil
}

func (s *Service) Update(ctx context.Context, id string, req pricingdomain.UpdateRequest) (*pricingdomain.PricingEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Item != nil {
		item := strings.TrimSpace(*req.Item)
		if item == "" {
			return nil, pricingdomain.ErrMissingItem
		}
		if item != entry.Item {
			existing, err := s.repo.FindByItem(ctx, s.db, item)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, pricingdomain.ErrDuplicateItem
			}
			entry.Item = item
		}
	}
	if req.PricePerUnit != nil {
		if *req.PricePerUnit < 0 {
			return nil, pricingdomain.ErrNegativePrice
		}
		entry.PricePerUnit = *req.PricePerUnit
	}

	entry.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, s.db, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, entry.ID)
}
