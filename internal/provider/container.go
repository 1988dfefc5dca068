package provider

import (
	"github.com/ninetytwo-orders/internal/authz"
	"github.com/ninetytwo-orders/internal/cache"
	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/models"
	"github.com/ninetytwo-orders/internal/queue"
	"github.com/ninetytwo-orders/internal/repository"
	"github.com/ninetytwo-orders/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	OrderRepo repository.OrderRepository
	RowRepo   repository.RowRepository

	// Services
	AuthzService   *authz.Service
	AuthService    *service.AuthService
	CaptchaService *service.CaptchaService
	OrderService   *service.OrderService
	ExportService  *service.ExportService
}

// NewContainer 基于全局数据库连接初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.OrderRepo = repository.NewOrderRepository(db)
	c.RowRepo = repository.NewRowRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.RowRepo, service.OrderDefaultsFromConfig(c.Config))
	c.ExportService = service.NewExportService(c.OrderService, c.QueueClient, c.Config.Export)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
