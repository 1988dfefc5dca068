package cache

import (
	"context"
	"fmt"
	"time"
)

func revokedSessionKey(tokenID string) string {
	return fmt.Sprintf("session:revoked:%s", tokenID)
}

// RevokeSession 记录已注销的签名会话，保留至其自然过期
func RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if !Enabled() || tokenID == "" || ttl <= 0 {
		return nil
	}
	return redisClient.Set(ctx, BuildKey(revokedSessionKey(tokenID)), time.Now().Unix(), ttl).Err()
}

// IsSessionRevoked 判断签名会话是否已注销，缓存未启用时总是 false
func IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !Enabled() || tokenID == "" {
		return false, nil
	}
	n, err := redisClient.Exists(ctx, BuildKey(revokedSessionKey(tokenID))).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
