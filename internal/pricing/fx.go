package pricing

import (
	"github.com/greentruckerlabs/greentrucker/internal/pricing/repository"
	"github.com/greentruckerlabs/greentrucker/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
