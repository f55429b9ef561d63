package waste

import (
	"github.com/greentruckerlabs/greentrucker/internal/waste/repository"
	"github.com/greentruckerlabs/greentrucker/internal/waste/service"
	"go.uber.org/fx"
)

var Module = fx.Module("waste.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
