package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/cache"
	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/constants"
	adminhandlers "github.com/ninetytwo-orders/internal/http/handlers/admin"
	publichandlers "github.com/ninetytwo-orders/internal/http/handlers/public"
	"github.com/ninetytwo-orders/internal/http/response"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Server.Mode), gin.ReleaseMode) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	loginRule := RateLimitRule{
		Prefix:        redisPrefix + ":rate:login",
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", healthz)

	// API 路由组：先识别会话角色，再按访问矩阵放行
	api := r.Group("/api")
	api.Use(SessionMiddleware(c.AuthService))
	api.Use(AccessMiddleware(c.AuthzService))
	{
		// 会话
		api.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIP), adminHandler.Login)
		api.POST("/logout", adminHandler.Logout)
		api.GET("/session", adminHandler.Session)
		api.GET("/captcha", publicHandler.GetImageCaptcha)

		// 表单辅助
		api.GET("/catalog", publicHandler.GetCatalog)
		api.GET("/size-suggestion", publicHandler.SuggestSize)

		// 订单管理（管理员）
		api.GET("/orders", adminHandler.ListOrders)
		api.POST("/orders", adminHandler.CreateOrder)
		api.PATCH("/orders/:slug", adminHandler.UpdateOrder)
		api.DELETE("/orders/:slug", adminHandler.DeleteOrder)
		api.POST("/orders/:slug/exports", adminHandler.RequestExportArchive)

		// 单订单读取与行级操作（公开）
		api.GET("/orders/:slug", publicHandler.GetOrder)
		api.GET("/orders/:slug/export", publicHandler.ExportOrder)
		api.POST("/orders/:slug/rows", publicHandler.AddRow)
		api.PATCH("/orders/:slug/rows/:id", publicHandler.UpdateRow)
		api.DELETE("/orders/:slug/rows/:id", publicHandler.DeleteRow)
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Not found")
	})

	return r
}

// healthz 存活检查；Redis 启用时附带连通状态
func healthz(c *gin.Context) {
	body := gin.H{"ok": true, "redis": "disabled"}
	if cache.Enabled() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			body["redis"] = "unreachable"
			logger.Warnw("healthz_redis_unreachable", "error", err)
		} else {
			body["redis"] = "ok"
		}
	}
	response.OK(c, body)
}
