package inventory

import (
	"github.com/greentruckerlabs/greentrucker/internal/inventory/repository"
	"github.com/greentruckerlabs/greentrucker/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
