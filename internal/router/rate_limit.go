package router

import (
	"fmt"
	"net/http"
	"strings"

	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"
	"github.com/ninetytwo-orders/internal/http/response"
	"github.com/ninetytwo-orders/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则；BlockSeconds > 0 时超限后整段封禁
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
}

// 返回 {count, ttl}；count 为 -1 表示处于封禁期
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local block = tonumber(ARGV[3])
if block > 0 and current > tonumber(ARGV[2]) then
	redis.call("SET", KEYS[2], "1", "EX", block)
	redis.call("DEL", KEYS[1])
	return {-1, block}
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件，Redis 未启用时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		result, err := rateLimitScript.Run(c.Request.Context(), client,
			[]string{key, key + ":block"},
			rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds,
		).Int64Slice()
		if err != nil || len(result) < 2 {
			// 限流不可用时不影响登录
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		count, ttlSeconds := result[0], result[1]
		if count >= 0 && count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}
		response.Abort(c, http.StatusTooManyRequests, tooManyRequestsMessage(ttlSeconds, rule))
	}
}

func tooManyRequestsMessage(ttlSeconds int64, rule RateLimitRule) string {
	wait := int(ttlSeconds)
	if wait < 1 {
		wait = rule.BlockSeconds
	}
	if wait < 1 {
		wait = rule.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return fmt.Sprintf("%s, retry in %d seconds", handlershared.MsgTooManyRequests, wait)
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}
