package public

import (
	"net/http"

	"github.com/ninetytwo-orders/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取登录图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondServiceError(c, err, http.StatusInternalServerError)
		return
	}
	response.OK(c, challenge)
}
