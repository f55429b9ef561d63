package notifier

import (
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notifier",
	fx.Provide(
		NewRedisClient,
		NewMailer,
		NewDispatcher,
	),
)

// NewRedisClient returns nil when no redis address is configured; the
// dispatcher then runs without the cross-replica lock.
func NewRedisClient(cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Named("notifier").Info("redis not configured, dispatcher lock disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
