package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/ninetytwo-orders/internal/app"
	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(mode)

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if cfg.Admin.SessionMode == config.SessionModeSigned {
		if cfg.Server.Mode == "release" && isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		} else if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
		}
	}
	if cfg.Admin.PasswordHash == "" && cfg.Server.Mode == "release" {
		stdLog.Printf("警告: 管理员密码以明文配置，建议改用 ADMIN_PASSWORD_HASH")
	}

	// 初始化数据库并迁移
	if err := models.Bootstrap(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.EnsureDatabase, poolConfig(cfg)); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if err := models.CloseDB(); err != nil {
			logger.Warnw("database_close_failed", "error", err)
		}
	}()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		logger.Errorw("server_run_failed", "error", err)
		_ = models.CloseDB()
		logger.Sync()
		os.Exit(1)
	}
}

func poolConfig(cfg *config.Config) models.DBPoolConfig {
	return models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiGreen + ansiBold + "ninetytwo orders" + ansiReset + ansiDim + " (mode: " + mode + ")" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
