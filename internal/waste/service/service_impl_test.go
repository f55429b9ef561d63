package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	wasterepo "github.com/greentruckerlabs/greentrucker/internal/waste/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&wastedomain.WasteCollection{}, &wastedomain.WasteItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.New(),
		repo:  wasterepo.Provide(),
	}
	return svc, db
}

func createReq(items ...wastedomain.ItemInput) wastedomain.CreateRequest {
	return wastedomain.CreateRequest{
		CollectionID:   "COL-100",
		ResidentID:     "res-1",
		CollectionDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Status:         wastedomain.CollectionStatusCollected,
		Items:          items,
	}
}

func TestCreateCollection(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.Create(context.Background(), createReq(
		wastedomain.ItemInput{WasteType: "Recyclable", Category: "Paper", Weight: 3},
		wastedomain.ItemInput{WasteType: "Non-Recyclable", Category: "Food Waste", Weight: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, "COL-100", record.CollectionID)
	require.Len(t, record.Garbage, 2)
	assert.Equal(t, 0, record.Garbage[0].Position)
	assert.Equal(t, 1, record.Garbage[1].Position)
}

func TestCreateRejectsCategoryMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createReq(
		wastedomain.ItemInput{WasteType: "Recyclable", Category: "Food Waste", Weight: 3},
	))
	var mismatch *wastedomain.CategoryMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Food Waste", mismatch.Category)
}

func TestCreateRejectsEmptyGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createReq())
	assert.ErrorIs(t, err, wastedomain.ErrEmptyGarbage)
}

func TestCreateRejectsDuplicateCollectionID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(
		wastedomain.ItemInput{WasteType: "Recyclable", Category: "Glass", Weight: 1},
	))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq(
		wastedomain.ItemInput{WasteType: "Recyclable", Category: "Glass", Weight: 1},
	))
	assert.ErrorIs(t, err, wastedomain.ErrDuplicateCollection)
}

func TestUpdateReplacesItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(
		wastedomain.ItemInput{WasteType: "Recyclable", Category: "Paper", Weight: 3},
	))
	require.NoError(t, err)

	cancelled := wastedomain.CollectionStatusCancelled
	record, err := svc.Update(ctx, "COL-100", wastedomain.UpdateRequest{
		Status: &cancelled,
		Items: []wastedomain.ItemInput{
			{WasteType: "Non-Recyclable", Category: "Other", Weight: 7},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, wastedomain.CollectionStatusCancelled, record.Status)
	require.Len(t, record.Garbage, 1)
	assert.Equal(t, "Other", record.Garbage[0].Category)
	assert.InDelta(t, 7.0, record.Garbage[0].Weight, 0.001)
}

func TestListByMonth(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i, date := range []time.Time{
		time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
	} {
		req := createReq(wastedomain.ItemInput{WasteType: "Recyclable", Category: "Metal", Weight: 1})
		req.CollectionID = fmt.Sprintf("COL-%d", i)
		req.CollectionDate = date
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	records, err := svc.ListByMonth(ctx, "2026-04")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "COL-0", records[0].CollectionID)

	_, err = svc.ListByMonth(ctx, "April 2026")
	assert.ErrorIs(t, err, wastedomain.ErrInvalidMonth)
}

func TestDeleteCollection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(
		wastedomain.ItemInput{WasteType: "Recyclable", Category: "Plastic", Weight: 2},
	))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "COL-100"))

	_, err = svc.Get(ctx, "COL-100")
	assert.True(t, errors.Is(err, wastedomain.ErrNotFound))
}
