package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  wastedomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  wastedomain.Repository
}

func NewService(p ServiceParam) wastedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("waste.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req wastedomain.CreateRequest) (*wastedomain.WasteCollection, error) {
	collectionID := strings.TrimSpace(req.CollectionID)
	if collectionID == "" {
		return nil, wastedomain.ErrMissingCollectionID
	}
	if strings.TrimSpace(req.ResidentID) == "" {
		return nil, wastedomain.ErrMissingResident
	}
	if len(req.Items) == 0 {
		return nil, wastedomain.ErrEmptyGarbage
	}

	status := req.Status
	if status == "" {
		status = wastedomain.CollectionStatusScheduled
	}
	if !wastedomain.ValidStatus(status) {
		return nil, wastedomain.ErrInvalidStatus
	}

	existing, err := s.repo.FindByCollectionID(ctx, s.db, collectionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, wastedomain.ErrDuplicateCollection
	}

	items, err := s.buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	collectionDate := req.CollectionDate
	if collectionDate.IsZero() {
		collectionDate = now
	}

	record := &wastedomain.WasteCollection{
		ID:             s.genID.Generate(),
		CollectionID:   collectionID,
		ResidentID:     strings.TrimSpace(req.ResidentID),
		CollectionDate: collectionDate,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i := range items {
		items[i].ID = s.genID.Generate()
		items[i].CollectionID = record.ID
		items[i].Position = i
	}
	record.Garbage = items

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	s.log.Info("waste collection recorded",
		zap.String("collection_id", record.CollectionID),
		zap.String("resident_id", record.ResidentID),
		zap.Int("items", len(record.Garbage)),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, collectionID string) (*wastedomain.WasteCollection, error) {
	record, err := s.repo.FindByCollectionID(ctx, s.db, strings.TrimSpace(collectionID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, wastedomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]wastedomain.WasteCollection, error) {
	return s.repo.List(ctx, s.db, wastedomain.ListOptions{})
}

func (s *Service) ListByResident(ctx context.Context, residentID string) ([]wastedomain.WasteCollection, error) {
	return s.repo.List(ctx, s.db, wastedomain.ListOptions{ResidentID: strings.TrimSpace(residentID)})
}

// ListByMonth returns records whose collection date falls inside the given
// month, formatted YYYY-MM.
func (s *Service) ListByMonth(ctx context.Context, month string) ([]wastedomain.WasteCollection, error) {
	start, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return nil, wastedomain.ErrInvalidMonth
	}
	end := start.AddDate(0, 1, 0)
	return s.repo.List(ctx, s.db, wastedomain.ListOptions{PeriodFrom: &start, PeriodTo: &end})
}

func (s *Service) Update(ctx context.Context, collectionID string, req wastedomain.UpdateRequest) (*wastedomain.WasteCollection, error) {
	record, err := s.repo.FindByCollectionID(ctx, s.db, strings.TrimSpace(collectionID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, wastedomain.ErrNotFound
	}

	if req.Status != nil {
		if !wastedomain.ValidStatus(*req.Status) {
			return nil, wastedomain.ErrInvalidStatus
		}
		record.Status = *req.Status
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record.UpdatedAt = s.clock.Now(ctx)
		if err := s.repo.Update(ctx, tx, record); err != nil {
			return err
		}
		if req.Items != nil {
			items, err := s.buildItems(req.Items)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].ID = s.genID.Generate()
				items[i].CollectionID = record.ID
				items[i].Position = i
			}
			if err := s.repo.ReplaceItems(ctx, tx, record.ID, items); err != nil {
				return err
			}
			record.Garbage = items
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, collectionID string) error {
	record, err := s.repo.FindByCollectionID(ctx, s.db, strings.TrimSpace(collectionID))
	if err != nil {
		return err
	}
	if record == nil {
		return wastedomain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, record.ID)
}

func (s *Service) buildItems(inputs []wastedomain.ItemInput) ([]wastedomain.WasteItem, error) {
	items := make([]wastedomain.WasteItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := wastedomain.NewWasteItem(wastedomain.WasteType(in.WasteType), in.Category, in.Weight)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
