package models

import (
	"github.com/ninetytwo-orders/internal/logger"
)

// Bootstrap 按需创建目标库、建立连接并迁移表结构
func Bootstrap(driver, dsn string, ensureDatabase bool, pool DBPoolConfig) error {
	if ensureDatabase {
		if err := EnsureDatabase(driver, dsn); err != nil {
			return err
		}
	}
	if err := InitDB(driver, dsn, pool); err != nil {
		return err
	}
	if err := AutoMigrate(); err != nil {
		return err
	}
	logger.Infow("database_ready", "driver", NormalizeDriver(driver))
	return nil
}

// CloseDB 关闭全局连接
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
