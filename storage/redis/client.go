package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sentinel/config"
)

var client *redis.Client

// Init 初始化 Redis 连接
func Init() error {
	client = redis.NewClient(&redis.Options{
		Addr:         config.Cfg.RedisAddr,
		Password:     config.Cfg.RedisPassword,
		DB:           config.Cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	zap.L().Info("redis connected", zap.String("addr", config.Cfg.RedisAddr))
	return nil
}

// Client 获取 Redis 客户端
func Client() *redis.Client {
	return client
}

// Key 统一的键前缀，避免与同实例的其他业务冲突
func Key(parts ...string) string {
	return config.Cfg.RedisPrefix + ":" + strings.Join(parts, ":")
}

// Close 关闭 Redis 连接
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
