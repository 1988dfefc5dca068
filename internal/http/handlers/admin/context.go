package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.AuthService.CookieName(), value, maxAge, "/", "", c.Request.TLS != nil, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.AuthService.CookieName(), "", -1, "/", "", c.Request.TLS != nil, true)
}

func (h *Handler) sessionCookieValue(c *gin.Context) string {
	value, err := c.Cookie(h.AuthService.CookieName())
	if err != nil {
		return ""
	}
	return value
}
