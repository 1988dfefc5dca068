package main

import (
	"flag"
	"os"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/models"
)

// 仅执行建库与迁移，供部署流水线在启动服务前调用
func main() {
	ensure := flag.Bool("ensure-db", false, "postgres 目标库不存在时创建（覆盖配置）")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	pool := models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}
	if err := models.Bootstrap(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.EnsureDatabase || *ensure, pool); err != nil {
		logger.Errorw("migrate_failed", "driver", cfg.Database.Driver, "error", err)
		logger.Sync()
		os.Exit(1)
	}
	if err := models.CloseDB(); err != nil {
		logger.Warnw("database_close_failed", "error", err)
	}
	logger.Infow("migrate_done", "driver", models.NormalizeDriver(cfg.Database.Driver))
}
