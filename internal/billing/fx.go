package billing

import (
	"github.com/greentruckerlabs/greentrucker/internal/billing/repository"
	"github.com/greentruckerlabs/greentrucker/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
