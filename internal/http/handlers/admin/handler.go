package admin

import "github.com/ninetytwo-orders/internal/provider"

// Handler 管理端接口处理器入口
// 说明：登录与会话接口对所有人开放，订单管理接口需管理员会话。
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
