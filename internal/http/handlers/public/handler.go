package public

import "github.com/ninetytwo-orders/internal/provider"

// Handler 公开接口处理器入口
// 说明：单订单读取、行级增删改、导出与表单辅助接口，无需管理员会话。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
