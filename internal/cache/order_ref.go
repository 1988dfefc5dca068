package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const defaultOrderRefTTL = 10 * time.Minute

// OrderRef slug 到订单主键的映射快照
type OrderRef struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	CachedAt int64  `json:"cached_at"`
}

func orderRefKey(slug string) string {
	return fmt.Sprintf("order:ref:%s", strings.ToLower(strings.TrimSpace(slug)))
}

// GetOrderRef 读取订单映射
func GetOrderRef(ctx context.Context, slug string) (*OrderRef, bool, error) {
	var ref OrderRef
	ok, err := GetJSON(ctx, orderRefKey(slug), &ref)
	if err != nil || !ok {
		return nil, false, err
	}
	if ref.ID == 0 || ref.Slug != strings.TrimSpace(slug) {
		return nil, false, nil
	}
	return &ref, true, nil
}

// SetOrderRef 写入订单映射
func SetOrderRef(ctx context.Context, slug string, id uint, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultOrderRefTTL
	}
	ref := OrderRef{
		ID:       id,
		Slug:     strings.TrimSpace(slug),
		CachedAt: time.Now().Unix(),
	}
	return SetJSON(ctx, orderRefKey(slug), ref, ttl)
}

// DelOrderRef 删除订单映射
func DelOrderRef(ctx context.Context, slug string) error {
	return Del(ctx, orderRefKey(slug))
}
