package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/greentruckerlabs/greentrucker/internal/audit"
	"github.com/greentruckerlabs/greentrucker/internal/authorization"
	"github.com/greentruckerlabs/greentrucker/internal/billing"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	"github.com/greentruckerlabs/greentrucker/internal/inventory"
	"github.com/greentruckerlabs/greentrucker/internal/migration"
	"github.com/greentruckerlabs/greentrucker/internal/notifier"
	"github.com/greentruckerlabs/greentrucker/internal/observability"
	"github.com/greentruckerlabs/greentrucker/internal/payment"
	"github.com/greentruckerlabs/greentrucker/internal/pricing"
	"github.com/greentruckerlabs/greentrucker/internal/schedule"
	"github.com/greentruckerlabs/greentrucker/internal/seed"
	"github.com/greentruckerlabs/greentrucker/internal/server"
	"github.com/greentruckerlabs/greentrucker/internal/waste"
	"github.com/greentruckerlabs/greentrucker/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "greentrucker",
		Short:   "GreenTrucker CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newNotifierCmd(), newSeedCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newNotifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Run the outbox notification dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			runNotifier()
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default pricing catalog, role policies and admin key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations and seed, then start API server and notifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			if err := runSeed(); err != nil {
				return err
			}
			runMonolith()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		events.Module,
		pricing.Module,
		waste.Module,
		payment.Module,
		billing.Module,
		schedule.Module,
		inventory.Module,
		audit.Module,
		authorization.Module,
		server.Module,
	)
	app.Run()
}

func runNotifier() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		events.Module,
		notifier.Module,
		fx.Invoke(startNotifier),
	)
	app.Run()
}

func runSeed() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		authorization.Module,
		fx.Invoke(func(database *gorm.DB, enforcer *casbin.Enforcer, node *snowflake.Node, log *zap.Logger) error {
			return seed.Run(database, enforcer, node, log)
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runMonolith() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		events.Module,
		pricing.Module,
		waste.Module,
		payment.Module,
		billing.Module,
		schedule.Module,
		inventory.Module,
		audit.Module,
		authorization.Module,
		notifier.Module,
		server.Module,
		fx.Invoke(startNotifier),
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}

func startNotifier(lc fx.Lifecycle, d *notifier.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				_ = d.Run(context.Background())
			}()
			return nil
		},
	})
}
