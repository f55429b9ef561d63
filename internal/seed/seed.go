package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	apikeydomain "github.com/greentruckerlabs/greentrucker/internal/apikey/domain"
	"github.com/greentruckerlabs/greentrucker/internal/authorization"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultCatalog covers every category a waste item can carry. Prices are a
// starting point; staff adjust them through the pricing API.
var defaultCatalog = map[string]float64{
	"Paper":      1.00,
	"Plastic":    2.00,
	"Glass":      1.50,
	"Metal":      3.00,
	"Food Waste": 2.50,
	"Organic":    2.00,
	"Hazardous":  5.00,
	"Other":      1.00,
}

// EnsurePricingCatalog inserts any missing default pricing entries. Existing
// entries are never overwritten.
func EnsurePricingCatalog(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for item, price := range defaultCatalog {
			var existing pricingdomain.PricingEntry
			err := tx.Where("item = ?", item).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			now := time.Now().UTC()
			entry := pricingdomain.PricingEntry{
				ID:           node.Generate(),
				Item:         item,
				PricePerUnit: price,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsurePolicies installs the default role grants and role inheritance into
// the enforcer. Already-present rules are skipped by casbin.
func EnsurePolicies(enforcer *casbin.Enforcer) error {
	if enforcer == nil {
		return errors.New("seed enforcer is required")
	}

	for _, p := range authorization.DefaultPolicies() {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	for _, g := range authorization.DefaultGroupings() {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	return enforcer.SavePolicy()
}

// EnsureAdminKey creates a bootstrap admin API key when no key exists yet.
// The plaintext is returned exactly once; only its hash is stored.
func EnsureAdminKey(db *gorm.DB, node *snowflake.Node) (string, error) {
	if db == nil {
		return "", errors.New("seed database handle is required")
	}

	var count int64
	if err := db.Model(&apikeydomain.APIKey{}).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	plaintext, record, err := apikeydomain.Generate(node, "bootstrap admin", authorization.RoleAdmin, time.Now().UTC())
	if err != nil {
		return "", err
	}
	if err := db.Create(record).Error; err != nil {
		return "", err
	}
	return plaintext, nil
}

// Run applies every seed step. Safe to run repeatedly.
func Run(db *gorm.DB, enforcer *casbin.Enforcer, node *snowflake.Node, log *zap.Logger) error {
	if err := EnsurePricingCatalog(db, node); err != nil {
		return fmt.Errorf("seed pricing catalog: %w", err)
	}
	if err := EnsurePolicies(enforcer); err != nil {
		return fmt.Errorf("seed role policies: %w", err)
	}

	plaintext, err := EnsureAdminKey(db, node)
	if err != nil {
		return fmt.Errorf("seed admin key: %w", err)
	}
	if plaintext != "" {
		// Printed once at bootstrap; there is no way to recover it later.
		fmt.Printf("bootstrap admin API key: %s\n", plaintext)
	}

	log.Info("seed complete")
	return nil
}
