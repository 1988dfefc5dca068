package response

import (
	"net/http"

	"github.com/ninetytwo-orders/internal/constants"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// OK 200 响应，body 原样输出
func OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Done 200 响应 {"ok": true}，extra 中的字段合并输出
func Done(c *gin.Context, extra gin.H) {
	body := gin.H{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error 错误响应 {"error": msg}
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{Error: msg, RequestID: requestID(c)})
}

// Abort 错误响应并终止后续处理
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, RequestID: requestID(c)})
}

func requestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
