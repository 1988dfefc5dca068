package public

import (
	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string, err error) {
	handlershared.RespondError(c, status, msg, err)
}

func respondServiceError(c *gin.Context, err error, fallback int) {
	handlershared.RespondServiceError(c, err, fallback)
}
