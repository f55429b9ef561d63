package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  inventorydomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  inventorydomain.Repository
}

func NewService(p ServiceParam) inventorydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req inventorydomain.CreateRequest) (*inventorydomain.InventoryItem, error) {
	now := s.clock.Now(ctx)
	id := s.genID.Generate()

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = inventorydomain.DefaultCategory
	}

	item := &inventorydomain.InventoryItem{
		ID:            id,
		UserID:        strings.TrimSpace(req.UserID),
		ItemName:      strings.TrimSpace(req.ItemName),
		Description:   strings.TrimSpace(req.Description),
		Category:      category,
		Image:         strings.TrimSpace(req.Image),
		Quantity:      req.Quantity,
		Condition:     req.Condition,
		Location:      strings.TrimSpace(req.Location),
		Type:          strings.TrimSpace(req.Type),
		Offer:         req.Offer,
		RegularPrice:  req.RegularPrice,
		DiscountPrice: req.DiscountPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if len(req.Metadata) > 0 {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	// Slugs carry the id suffix so two listings with the same name cannot
	// collide.
	item.Slug = slug.Make(item.ItemName) + "-" + id.String()

	if err := s.repo.Insert(ctx, s.db, item); err != nil {
		return nil, err
	}

	s.log.Info("inventory item created",
		zap.String("slug", item.Slug),
		zap.String("user_id", item.UserID),
	)
	return item, nil
}

func (s *Service) Get(ctx context.Context, itemSlug string) (*inventorydomain.InventoryItem, error) {
	item, err := s.repo.FindBySlug(ctx, s.db, strings.TrimSpace(itemSlug))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, inventorydomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, opts inventorydomain.ListOptions) ([]inventorydomain.InventoryItem, error) {
	return s.repo.List(ctx, s.db, opts)
}

func (s *Service) Update(ctx context.Context, itemSlug string, req inventorydomain.UpdateRequest) (*inventorydomain.InventoryItem, error) {
	itemSlug = strings.TrimSpace(itemSlug)

	var updated *inventorydomain.InventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindBySlug(ctx, tx, itemSlug)
		if err != nil {
			return err
		}
		if item == nil {
			return inventorydomain.ErrNotFound
		}

		if req.Description != nil {
			item.Description = strings.TrimSpace(*req.Description)
		}
		if req.Category != nil {
			item.Category = strings.TrimSpace(*req.Category)
		}
		if req.Image != nil {
			item.Image = strings.TrimSpace(*req.Image)
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Condition != nil {
			item.Condition = *req.Condition
		}
		if req.Location != nil {
			item.Location = strings.TrimSpace(*req.Location)
		}
		if req.Offer != nil {
			item.Offer = *req.Offer
		}
		if req.RegularPrice != nil {
			item.RegularPrice = *req.RegularPrice
		}
		if req.DiscountPrice != nil {
			item.DiscountPrice = *req.DiscountPrice
		}
		item.UpdatedAt = s.clock.Now(ctx)

		if err := s.repo.Update(ctx, tx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, itemSlug string) error {
	itemSlug = strings.TrimSpace(itemSlug)
	item, err := s.repo.FindBySlug(ctx, s.db, itemSlug)
	if err != nil {
		return err
	}
	if item == nil {
		return inventorydomain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, itemSlug)
}
