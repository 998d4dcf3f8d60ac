package cache

import (
	"context"
	"strings"
	"time"

	"picvote-server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPrefix = "picvote"

// NewRedisClient 创建 Redis 客户端；未启用或连接失败时返回 nil，调用方降级为进程内实现。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn("Redis 不可用，降级为内存模式", zap.String("addr", cfg.Addr), zap.Error(err))
		return nil
	}

	log.Info("Redis 已连接", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client
}

// Keyer 基于配置前缀拼接 Redis 键名
type Keyer struct {
	prefix string
}

func NewKeyer(cfg config.RedisConfig) Keyer {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return Keyer{prefix: prefix}
}

func (k Keyer) Key(parts ...string) string {
	if len(parts) == 0 {
		return k.prefix
	}
	return k.prefix + ":" + strings.Join(parts, ":")
}

// Close 关闭客户端，nil 安全
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
