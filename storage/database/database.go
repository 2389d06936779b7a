package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sentinel/config"
)

var db *gorm.DB

// Init 初始化数据库连接
func Init() error {
	logLevel := gormlogger.Warn
	if config.Cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	var err error
	db, err = gorm.Open(postgres.Open(config.Cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configureConnectionPool(); err != nil {
		return fmt.Errorf("failed to configure connection pool: %w", err)
	}

	zap.L().Info("database connected",
		zap.String("host", config.Cfg.PostgreSQLHost),
		zap.String("database", config.Cfg.PostgreSQLDatabase),
	)
	return nil
}

func configureConnectionPool() error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(config.Cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(config.Cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// DB 获取数据库实例
func DB() *gorm.DB {
	return db
}

// Close 关闭数据库连接
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
