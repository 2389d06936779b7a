package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentinel/internal/model"
)

// Migrate 执行自动迁移，建表和补齐索引
func Migrate() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := AutoMigrate(db); err != nil {
		return err
	}
	zap.L().Info("database migration completed")
	return nil
}

// AutoMigrate 按依赖顺序迁移全部模型，测试库也走这一份清单
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&model.Profile{},
		&model.Event{},
		&model.EventAssignment{},
		&model.Alert{},
		&model.LocationPing{},
		&model.AudioRecording{},
		&model.Message{},
		&model.Wearable{},
		&model.DecoyConfig{},
		&model.Notification{},
		&model.IncidentReport{},
	)
}
