package storage

import (
	"fmt"

	"go.uber.org/zap"

	"sentinel/storage/database"
	"sentinel/storage/mq"
	"sentinel/storage/redis"
)

// Init 初始化全部存储层连接并完成数据库迁移
func Init() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	if err := redis.Init(); err != nil {
		return fmt.Errorf("redis init failed: %w", err)
	}
	if err := mq.Init(); err != nil {
		return fmt.Errorf("rabbitmq init failed: %w", err)
	}
	return nil
}

// Close 关闭全部存储层连接
func Close() {
	if err := mq.Close(); err != nil {
		zap.L().Error("failed to close rabbitmq connection", zap.Error(err))
	}
	if err := redis.Close(); err != nil {
		zap.L().Error("failed to close redis connection", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		zap.L().Error("failed to close database connection", zap.Error(err))
	}
}
