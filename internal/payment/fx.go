package payment

import (
	"github.com/greentruckerlabs/greentrucker/internal/payment/repository"
	"github.com/greentruckerlabs/greentrucker/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
