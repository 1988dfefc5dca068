package shared

import (
	"strconv"
	"strings"

	"github.com/ninetytwo-orders/internal/constants"

	"github.com/gin-gonic/gin"
)

// IsAdmin 当前请求是否持有有效管理员会话（由会话中间件写入）。
func IsAdmin(c *gin.Context) bool {
	value, ok := c.Get(constants.ContextKeyRole)
	if !ok {
		return false
	}
	role, _ := value.(string)
	return role == constants.RoleAdmin
}

// SlugParam 读取路径中的订单 slug。
func SlugParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("slug"))
}

// RowIDParam 读取路径中的行 ID，非法值返回 false。
func RowIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
