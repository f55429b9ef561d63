// @title           GreenTrucker API
// @version         1.0
// @description     Municipal waste collection, billing and marketplace API

// @contact.name   API Support
// @contact.email  support@greentrucker.dev

// @host      localhost:8080
// @BasePath  /v1
// @Schemes 	http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/greentruckerlabs/greentrucker/internal/audit"
	"github.com/greentruckerlabs/greentrucker/internal/authorization"
	"github.com/greentruckerlabs/greentrucker/internal/billing"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	"github.com/greentruckerlabs/greentrucker/internal/inventory"
	"github.com/greentruckerlabs/greentrucker/internal/observability"
	"github.com/greentruckerlabs/greentrucker/internal/payment"
	"github.com/greentruckerlabs/greentrucker/internal/pricing"
	"github.com/greentruckerlabs/greentrucker/internal/schedule"
	"github.com/greentruckerlabs/greentrucker/internal/server"
	"github.com/greentruckerlabs/greentrucker/internal/waste"
	"github.com/greentruckerlabs/greentrucker/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
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

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
