package admin

import (
	"net/http"
	"strings"

	handlershared "github.com/ninetytwo-orders/internal/http/handlers/shared"
	"github.com/ninetytwo-orders/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	handlershared.CaptchaPayloadRequest
}

// Login 校验共享凭据并下发会话 Cookie
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnauthorized, handlershared.MsgInvalidCredentials, nil)
		return
	}
	if h.CaptchaService != nil && h.CaptchaService.Enabled() {
		if err := h.CaptchaService.Verify(req.ToServicePayload()); err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
	}

	session, err := h.AuthService.Login(req.Login, req.Password)
	if err != nil {
		requestLog(c).Infow("admin_login_failed", "login", strings.TrimSpace(req.Login), "client_ip", c.ClientIP())
		respondServiceError(c, err, http.StatusUnauthorized)
		return
	}
	h.setSessionCookie(c, session.Value, session.MaxAge)
	requestLog(c).Infow("admin_login", "client_ip", c.ClientIP(), "expires_at", session.ExpiresAt)
	response.Done(c, nil)
}

// Logout 注销会话并清除 Cookie
func (h *Handler) Logout(c *gin.Context) {
	h.AuthService.Logout(h.sessionCookieValue(c))
	h.clearSessionCookie(c)
	response.Done(c, nil)
}

// Session 返回当前请求是否持有管理员会话
func (h *Handler) Session(c *gin.Context) {
	response.OK(c, gin.H{"admin": handlershared.IsAdmin(c)})
}
