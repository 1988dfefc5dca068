package admin

import (
	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, status int, msg string, err error) {
	handlershared.RespondError(c, status, msg, err)
}

func respondServiceError(c *gin.Context, err error, fallback int) {
	handlershared.RespondServiceError(c, err, fallback)
}
