package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	"github.com/greentruckerlabs/greentrucker/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) inventorydomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&inventorydomain.InventoryItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.New(),
		Repo:  repository.Provide(),
	})
}

func validCreateRequest() inventorydomain.CreateRequest {
	return inventorydomain.CreateRequest{
		UserID:       "staff-1",
		ItemName:     "Refurbished Office Chair",
		Description:  "Restored from curbside pickup, new upholstery",
		Quantity:     3,
		Condition:    8,
		Location:     "Depot A",
		Type:         "Furniture",
		RegularPrice: 45,
	}
}

func TestCreateAssignsSlugAndDefaults(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Contains(t, item.Slug, "refurbished-office-chair-")
	assert.Equal(t, inventorydomain.DefaultCategory, item.Category)
}

func TestCreateSameNameGetsDistinctSlugs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	second, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestCreateValidatesCondition(t *testing.T) {
	svc := newTestService(t)

	req := validCreateRequest()
	req.Condition = 11
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, inventorydomain.ErrInvalidCondition)
}

func TestCreateRejectsDiscountAboveRegular(t *testing.T) {
	svc := newTestService(t)

	req := validCreateRequest()
	req.Offer = true
	req.DiscountPrice = 60
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, inventorydomain.ErrInvalidDiscount)
}

func TestListFiltersBySearchAndOffer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	bike := validCreateRequest()
	bike.ItemName = "City Bike"
	bike.Offer = true
	bike.DiscountPrice = 30
	_, err = svc.Create(ctx, bike)
	require.NoError(t, err)

	items, err := svc.List(ctx, inventorydomain.ListOptions{Search: "bike"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "City Bike", items[0].ItemName)

	offers, err := svc.List(ctx, inventorydomain.ListOptions{OfferOnly: true})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "City Bike", offers[0].ItemName)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	quantity := 1
	updated, err := svc.Update(ctx, item.Slug, inventorydomain.UpdateRequest{Quantity: &quantity})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)

	require.NoError(t, svc.Delete(ctx, item.Slug))
	_, err = svc.Get(ctx, item.Slug)
	assert.ErrorIs(t, err, inventorydomain.ErrNotFound)
}
