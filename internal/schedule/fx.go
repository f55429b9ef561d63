package schedule

import (
	"github.com/greentruckerlabs/greentrucker/internal/schedule/repository"
	"github.com/greentruckerlabs/greentrucker/internal/schedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("schedule.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
