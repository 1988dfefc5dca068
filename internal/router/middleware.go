package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/authz"
	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/constants"
	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"
	"github.com/ninetytwo-orders/internal/http/response"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Cache-Control",
			"X-Requested-With",
			constants.HeaderRequestID,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Cookie 会话下，通配来源只有回显具体 Origin 才能携带凭据
func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(constants.HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set(constants.HeaderRequestID, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		switch {
		case len(c.Errors) > 0:
			entry.Errorw("request", "errors", c.Errors.String())
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Warnw("request")
		default:
			entry.Infow("request")
		}
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}

// SessionMiddleware 识别管理员会话 Cookie，写入访问角色；不拦截请求
func SessionMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := constants.RoleGuest
		if authService != nil {
			if value, err := c.Cookie(authService.CookieName()); err == nil {
				if authService.VerifySession(value) == nil {
					role = constants.RoleAdmin
				}
			}
		}
		c.Set(constants.ContextKeyRole, role)
		c.Next()
	}
}

// AccessMiddleware 按访问角色执行 Casbin 路由授权：访客被拒返回 401，管理员被拒返回 403
func AccessMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyRole)
		if role == "" {
			role = constants.RoleGuest
		}
		if authzService == nil {
			logger.Errorw("access_authz_service_unavailable")
			response.Abort(c, http.StatusUnauthorized, handlershared.MsgUnauthorized)
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("access_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Abort(c, http.StatusUnauthorized, handlershared.MsgUnauthorized)
			return
		}
		if !allowed {
			if role != constants.RoleAdmin {
				response.Abort(c, http.StatusUnauthorized, handlershared.MsgUnauthorized)
				return
			}
			logger.Warnw("access_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Abort(c, http.StatusForbidden, handlershared.MsgForbidden)
			return
		}
		c.Next()
	}
}
