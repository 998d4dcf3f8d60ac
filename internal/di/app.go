package di

import (
	"context"
	"time"

	"picvote-server/internal/cache"
	"picvote-server/internal/config"
	"picvote-server/internal/router"
	"picvote-server/internal/service"
	"picvote-server/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const jwtIssuer = "picvote"

type Application struct {
	Router   *router.Router
	Services *service.Services
	Redis    *redis.Client
}

func NewApplication(r *router.Router, s *service.Services, rdb *redis.Client) *Application {
	return &Application{
		Router:   r,
		Services: s,
		Redis:    rdb,
	}
}

// Close 释放应用持有的外部连接
func (a *Application) Close() error {
	return cache.Close(a.Redis)
}

func provideRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	return cache.NewRedisClient(ctx, cfg.Redis, log)
}

func provideKeyer(cfg *config.Config) cache.Keyer {
	return cache.NewKeyer(cfg.Redis)
}

func provideJWT(cfg *config.Config) *utils.JWT {
	hours := cfg.JWT.ExpirationHours
	if hours <= 0 {
		hours = 24
	}
	return utils.NewJWT(cfg.JWT.Secret, time.Duration(hours)*time.Hour, jwtIssuer)
}
