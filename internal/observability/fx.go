package observability

import (
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/greentruckerlabs/greentrucker/internal/observability/logger"
	"github.com/greentruckerlabs/greentrucker/internal/observability/metrics"
	"github.com/greentruckerlabs/greentrucker/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const serviceName = "greentrucker"

var Module = fx.Module("observability",
	fx.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(cfg.Environment)
	}),
	fx.Provide(func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*tracing.TracerProvider, error) {
		provider, err := tracing.NewProvider(lc, tracing.Config{
			Enabled:          cfg.Tracing.Enabled,
			ServiceName:      serviceName,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
			ExporterProtocol: cfg.Tracing.ExporterProtocol,
			SamplingRatio:    cfg.Tracing.SamplingRatio,
		}, log)
		if err != nil {
			return nil, err
		}
		return &tracing.TracerProvider{Provider: provider}, nil
	}),
	fx.Provide(func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*metrics.HTTPMetrics, error) {
		provider, err := metrics.NewMeterProvider(lc, metrics.Config{
			Enabled:          cfg.Tracing.Enabled,
			ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
			ExporterProtocol: cfg.Tracing.ExporterProtocol,
		}, log)
		if err != nil {
			return nil, err
		}
		return metrics.NewHTTPMetrics(serviceName, provider)
	}),
)
