package seed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	apikeydomain "github.com/greentruckerlabs/greentrucker/internal/apikey/domain"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&pricingdomain.PricingEntry{}, &apikeydomain.APIKey{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func TestEnsurePricingCatalogIsIdempotent(t *testing.T) {
	db, node := newTestDB(t)

	require.NoError(t, EnsurePricingCatalog(db, node))

	var count int64
	require.NoError(t, db.Model(&pricingdomain.PricingEntry{}).Count(&count).Error)
	assert.EqualValues(t, len(defaultCatalog), count)

	// A staff price change must survive a re-run.
	require.NoError(t, db.Model(&pricingdomain.PricingEntry{}).
		Where("item = ?", "Paper").
		Update("price_per_unit", 9.99).Error)

	require.NoError(t, EnsurePricingCatalog(db, node))

	require.NoError(t, db.Model(&pricingdomain.PricingEntry{}).Count(&count).Error)
	assert.EqualValues(t, len(defaultCatalog), count)

	var paper pricingdomain.PricingEntry
	require.NoError(t, db.Where("item = ?", "Paper").First(&paper).Error)
	assert.InDelta(t, 9.99, paper.PricePerUnit, 0.001)
}

func TestEnsureAdminKeyOnlyOnce(t *testing.T) {
	db, node := newTestDB(t)

	plaintext, err := EnsureAdminKey(db, node)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plaintext, "gt_"))

	again, err := EnsureAdminKey(db, node)
	require.NoError(t, err)
	assert.Empty(t, again)

	var count int64
	require.NoError(t, db.Model(&apikeydomain.APIKey{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
